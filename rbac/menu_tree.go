package rbac

import (
	"context"
	"errors"
	"sort"

	"househelper/apperr"
	"househelper/models"

	"gorm.io/gorm"
)

// MenuTree 加载全部菜单并构建菜单树
func MenuTree(ctx context.Context, db *gorm.DB) ([]*models.MenuNode, error) {
	var menus []models.Menu
	if err := db.WithContext(ctx).Order("id ASC").Find(&menus).Error; err != nil {
		return nil, apperr.Internal("查询菜单失败", err)
	}
	return BuildMenuTree(menus), nil
}

// BuildMenuTree 将父指针形式的菜单列表组装为嵌套树
// 同级按 sort_order 升序，相同时保持输入顺序。父菜单不在列表中的节点作为根节点
func BuildMenuTree(menus []models.Menu) []*models.MenuNode {
	present := make(map[uint]bool, len(menus))
	for _, m := range menus {
		present[m.ID] = true
	}

	var roots []*models.MenuNode
	children := make(map[uint][]*models.MenuNode)
	for _, m := range menus {
		node := &models.MenuNode{Menu: m, Children: []*models.MenuNode{}}
		if m.ParentID == nil || !present[*m.ParentID] {
			roots = append(roots, node)
			continue
		}
		children[*m.ParentID] = append(children[*m.ParentID], node)
	}

	visited := make(map[uint]bool, len(menus))
	var attach func(nodes []*models.MenuNode) []*models.MenuNode
	attach = func(nodes []*models.MenuNode) []*models.MenuNode {
		sortSiblings(nodes)
		out := make([]*models.MenuNode, 0, len(nodes))
		for _, n := range nodes {
			if visited[n.ID] {
				continue
			}
			visited[n.ID] = true
			n.Children = attach(children[n.ID])
			out = append(out, n)
		}
		return out
	}
	return attach(roots)
}

func sortSiblings(nodes []*models.MenuNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].SortOrder < nodes[j].SortOrder
	})
}

// ValidateParent 校验菜单的新父级：不能是自身、必须存在、不能是自身的子孙
// menuID 为 0 表示新建菜单；parentID 为 0 表示顶级
func ValidateParent(ctx context.Context, db *gorm.DB, menuID, parentID uint) error {
	if parentID == 0 {
		return nil
	}
	if menuID != 0 && parentID == menuID {
		return apperr.Validation("不能将菜单的父级设置为自己")
	}

	var parent models.Menu
	if err := db.WithContext(ctx).Select("id").First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation("父菜单不存在")
		}
		return apperr.Internal("查询菜单失败", err)
	}
	if menuID == 0 {
		return nil
	}

	var all []models.Menu
	if err := db.WithContext(ctx).Select("id", "parent_id").Find(&all).Error; err != nil {
		return apperr.Internal("查询菜单失败", err)
	}
	if DescendantIDs(all, menuID)[parentID] {
		return apperr.Validation("不能将菜单的父级设置为其子菜单")
	}
	return nil
}

// DescendantIDs 收集 rootID 的所有子孙节点 ID
func DescendantIDs(menus []models.Menu, rootID uint) map[uint]bool {
	byParent := make(map[uint][]uint)
	for _, m := range menus {
		if m.ParentID != nil {
			byParent[*m.ParentID] = append(byParent[*m.ParentID], m.ID)
		}
	}
	set := make(map[uint]bool)
	var dfs func(id uint)
	dfs = func(id uint) {
		for _, c := range byParent[id] {
			if set[c] {
				continue
			}
			set[c] = true
			dfs(c)
		}
	}
	dfs(rootID)
	return set
}

// BeforeMenuDelete 有子菜单时拒绝删除，否则清理角色关联
func BeforeMenuDelete(tx *gorm.DB, menu *models.Menu) error {
	var children int64
	if err := tx.Model(&models.Menu{}).Where("parent_id = ?", menu.ID).Count(&children).Error; err != nil {
		return err
	}
	if children > 0 {
		return apperr.Conflict("无法删除：该菜单下有子菜单")
	}
	return tx.Where("menu_id = ?", menu.ID).Delete(&models.RoleMenu{}).Error
}
