package api

import (
	"net/http"

	"househelper/config"
	"househelper/models"
	"househelper/rbac"
	"househelper/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MenuHandler 菜单管理
type MenuHandler struct {
	base
	db    *gorm.DB
	menus *store.Store[models.Menu]
}

func NewMenuHandler(cfg *config.Config, log *zap.Logger, db *gorm.DB) *MenuHandler {
	return &MenuHandler{
		base: base{cfg: cfg, log: log},
		db:   db,
		menus: store.New(db, store.Options[models.Menu]{
			NotFoundMessage: "菜单不存在",
			Order:           "sort_order ASC, id ASC",
			BeforeDelete:    rbac.BeforeMenuDelete,
		}),
	}
}

type MenuCreateRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=50"`
	Path      string `json:"path" binding:"omitempty,max=100"`
	Component string `json:"component" binding:"omitempty,max=100"`
	Icon      string `json:"icon" binding:"omitempty,max=50"`
	SortOrder int    `json:"sort_order"`
	ParentID  *uint  `json:"parent_id"`
	IsHidden  bool   `json:"is_hidden"`
}

// MenuUpdateRequest parent_id 为 0 表示移动到顶级
type MenuUpdateRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=50"`
	Path      *string `json:"path" binding:"omitempty,max=100"`
	Component *string `json:"component" binding:"omitempty,max=100"`
	Icon      *string `json:"icon" binding:"omitempty,max=50"`
	SortOrder *int    `json:"sort_order"`
	ParentID  *uint   `json:"parent_id"`
	IsHidden  *bool   `json:"is_hidden"`
}

// Apply 实现 store.Patch
func (r MenuUpdateRequest) Apply(m *models.Menu) []string {
	var cols []string
	if r.Name != nil {
		m.Name = *r.Name
		cols = append(cols, "name")
	}
	if r.Path != nil {
		m.Path = *r.Path
		cols = append(cols, "path")
	}
	if r.Component != nil {
		m.Component = *r.Component
		cols = append(cols, "component")
	}
	if r.Icon != nil {
		m.Icon = *r.Icon
		cols = append(cols, "icon")
	}
	if r.SortOrder != nil {
		m.SortOrder = *r.SortOrder
		cols = append(cols, "sort_order")
	}
	if r.ParentID != nil {
		m.ParentID = nullableID(*r.ParentID)
		cols = append(cols, "parent_id")
	}
	if r.IsHidden != nil {
		m.IsHidden = *r.IsHidden
		cols = append(cols, "is_hidden")
	}
	return cols
}

func nullableID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

func derefID(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

// List 菜单平铺列表，按 sort_order 排序
func (h *MenuHandler) List(c *gin.Context) {
	var page store.Page
	if !h.bindQuery(c, &page) {
		return
	}
	page = page.Normalize(store.DefaultLimit)
	list, err := h.menus.List(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Tree 菜单树
// @Summary 菜单树
// @Tags 菜单
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MenuNode
// @Router /menus/tree [get]
func (h *MenuHandler) Tree(c *gin.Context) {
	tree, err := rbac.MenuTree(c.Request.Context(), h.db)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// Create 创建菜单
// @Summary 创建菜单
// @Tags 菜单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MenuCreateRequest true "菜单"
// @Success 201 {object} models.Menu
// @Failure 422 {object} ErrorResponse "父菜单不存在"
// @Router /menus/ [post]
func (h *MenuHandler) Create(c *gin.Context) {
	var req MenuCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	parentID := derefID(req.ParentID)
	if err := rbac.ValidateParent(ctx, h.db, 0, parentID); err != nil {
		h.fail(c, err)
		return
	}
	menu := models.Menu{
		Name:      req.Name,
		Path:      req.Path,
		Component: req.Component,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
		ParentID:  nullableID(parentID),
		IsHidden:  req.IsHidden,
	}
	if err := h.menus.Create(ctx, &menu); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, menu)
}

// Get 菜单详情
func (h *MenuHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	menu, err := h.menus.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// Update 更新菜单，修改父级时校验不形成环
func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req MenuUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if req.ParentID != nil {
		if _, err := h.menus.Get(ctx, id); err != nil {
			h.fail(c, err)
			return
		}
		if err := rbac.ValidateParent(ctx, h.db, id, *req.ParentID); err != nil {
			h.fail(c, err)
			return
		}
	}
	menu, err := h.menus.Update(ctx, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// Delete 删除菜单，有子菜单时拒绝
func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if _, err := h.menus.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
