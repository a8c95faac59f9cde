// Package rbac 维护角色与菜单、接口之间的多对多关联以及菜单树
package rbac

import (
	"context"
	"errors"
	"sort"

	"househelper/apperr"
	"househelper/models"

	"gorm.io/gorm"
)

// Graph 角色权限关联
type Graph struct {
	db *gorm.DB
}

// NewGraph 创建权限关联
func NewGraph(db *gorm.DB) *Graph {
	return &Graph{db: db}
}

// RoleDetail 角色详情，包含菜单ID与接口ID（升序）
func (g *Graph) RoleDetail(ctx context.Context, roleID uint) (*models.RoleDetail, error) {
	return roleDetail(g.db.WithContext(ctx), roleID)
}

// ReplacePermissions 整体替换角色的菜单集合和/或接口集合
// nil 表示保持不变，空切片表示清空。所有ID校验通过后才会修改，失败时原有关联不变
func (g *Graph) ReplacePermissions(ctx context.Context, roleID uint, menuIDs, apiIDs *[]uint) (*models.RoleDetail, error) {
	var detail *models.RoleDetail
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, roleID).Error; err != nil {
			return err
		}

		var menus, apis []uint
		if menuIDs != nil {
			menus = dedupe(*menuIDs)
			if err := ensureAllExist(tx, &models.Menu{}, menus, "部分菜单ID不存在"); err != nil {
				return err
			}
		}
		if apiIDs != nil {
			apis = dedupe(*apiIDs)
			if err := ensureAllExist(tx, &models.API{}, apis, "部分API ID不存在"); err != nil {
				return err
			}
		}

		if menuIDs != nil {
			if err := tx.Where("role_id = ?", roleID).Delete(&models.RoleMenu{}).Error; err != nil {
				return err
			}
			if len(menus) > 0 {
				rows := make([]models.RoleMenu, 0, len(menus))
				for _, id := range menus {
					rows = append(rows, models.RoleMenu{RoleID: roleID, MenuID: id})
				}
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}
		}
		if apiIDs != nil {
			if err := tx.Where("role_id = ?", roleID).Delete(&models.RoleAPI{}).Error; err != nil {
				return err
			}
			if len(apis) > 0 {
				rows := make([]models.RoleAPI, 0, len(apis))
				for _, id := range apis {
					rows = append(rows, models.RoleAPI{RoleID: roleID, APIID: id})
				}
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}
		}

		d, err := detailOf(tx, role)
		if err != nil {
			return err
		}
		detail = d
		return nil
	})
	if err != nil {
		return nil, translate(err, "更新角色权限失败")
	}
	return detail, nil
}

// RoleAPIs 角色被授予的全部接口
func (g *Graph) RoleAPIs(ctx context.Context, roleID uint) ([]models.API, error) {
	var apis []models.API
	err := g.db.WithContext(ctx).
		Joins("JOIN role_api ON role_api.api_id = apis.id").
		Where("role_api.role_id = ?", roleID).
		Find(&apis).Error
	if err != nil {
		return nil, apperr.Internal("查询角色接口失败", err)
	}
	return apis, nil
}

// BeforeRoleDelete 角色下仍有用户时拒绝删除，否则清理关联记录
func BeforeRoleDelete(tx *gorm.DB, role *models.Role) error {
	var users int64
	if err := tx.Model(&models.User{}).Where("role_id = ?", role.ID).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return apperr.Conflict("无法删除：该角色下有关联用户")
	}
	if err := tx.Where("role_id = ?", role.ID).Delete(&models.RoleMenu{}).Error; err != nil {
		return err
	}
	return tx.Where("role_id = ?", role.ID).Delete(&models.RoleAPI{}).Error
}

// BeforeAPIDelete 清理角色与该接口的关联
func BeforeAPIDelete(tx *gorm.DB, api *models.API) error {
	return tx.Where("api_id = ?", api.ID).Delete(&models.RoleAPI{}).Error
}

func roleDetail(db *gorm.DB, roleID uint) (*models.RoleDetail, error) {
	var role models.Role
	if err := db.First(&role, roleID).Error; err != nil {
		return nil, translate(err, "查询角色失败")
	}
	detail, err := detailOf(db, role)
	if err != nil {
		return nil, apperr.Internal("查询角色失败", err)
	}
	return detail, nil
}

func detailOf(db *gorm.DB, role models.Role) (*models.RoleDetail, error) {
	menuIDs := make([]uint, 0)
	if err := db.Model(&models.RoleMenu{}).Where("role_id = ?", role.ID).Order("menu_id").Pluck("menu_id", &menuIDs).Error; err != nil {
		return nil, err
	}
	apiIDs := make([]uint, 0)
	if err := db.Model(&models.RoleAPI{}).Where("role_id = ?", role.ID).Order("api_id").Pluck("api_id", &apiIDs).Error; err != nil {
		return nil, err
	}
	return &models.RoleDetail{Role: role, MenuIDs: menuIDs, APIIDs: apiIDs}, nil
}

func ensureAllExist(tx *gorm.DB, model interface{}, ids []uint, msg string) error {
	if len(ids) == 0 {
		return nil
	}
	var found int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return err
	}
	if found != int64(len(ids)) {
		return apperr.Validation(msg)
	}
	return nil
}

// dedupe 去重并升序
func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func translate(err error, fallback string) error {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("角色不存在")
	default:
		return apperr.Internal(fallback, err)
	}
}
