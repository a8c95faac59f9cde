package api

import (
	"net/http"

	"househelper/apperr"
	"househelper/config"
	"househelper/models"
	"househelper/rbac"
	"househelper/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoleHandler 角色管理
type RoleHandler struct {
	base
	roles *store.Store[models.Role]
	graph *rbac.Graph
}

func NewRoleHandler(cfg *config.Config, log *zap.Logger, db *gorm.DB) *RoleHandler {
	return &RoleHandler{
		base: base{cfg: cfg, log: log},
		roles: store.New(db, store.Options[models.Role]{
			NotFoundMessage: "角色不存在",
			ConflictMessage: "角色名已存在",
			BeforeDelete:    rbac.BeforeRoleDelete,
		}),
		graph: rbac.NewGraph(db),
	}
}

type RoleCreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Description string `json:"description" binding:"omitempty,max=200"`
}

type RoleUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=50"`
	Description *string `json:"description" binding:"omitempty,max=200"`
}

// Apply 实现 store.Patch
func (r RoleUpdateRequest) Apply(role *models.Role) []string {
	var cols []string
	if r.Name != nil {
		role.Name = *r.Name
		cols = append(cols, "name")
	}
	if r.Description != nil {
		role.Description = *r.Description
		cols = append(cols, "description")
	}
	return cols
}

// RolePermissionsRequest 整体替换角色权限，未提供的字段保持不变，空数组表示清空
type RolePermissionsRequest struct {
	MenuIDs *[]uint `json:"menu_ids"`
	APIIDs  *[]uint `json:"api_ids"`
}

// List 角色列表
// @Summary 角色列表
// @Tags 角色
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数"
// @Param limit query int false "返回条数"
// @Success 200 {array} models.Role
// @Router /roles/ [get]
func (h *RoleHandler) List(c *gin.Context) {
	var page store.Page
	if !h.bindQuery(c, &page) {
		return
	}
	page = page.Normalize(store.DefaultLimit)
	list, err := h.roles.List(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create 创建角色
// @Summary 创建角色
// @Tags 角色
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RoleCreateRequest true "角色"
// @Success 201 {object} models.Role
// @Failure 400 {object} ErrorResponse "角色名已存在"
// @Router /roles/ [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req RoleCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	exist, err := h.roles.Count(ctx, map[string]interface{}{"name": req.Name})
	if err != nil {
		h.fail(c, err)
		return
	}
	if exist > 0 {
		h.fail(c, apperr.Conflict("角色名已存在"))
		return
	}
	role := models.Role{Name: req.Name, Description: req.Description}
	if err := h.roles.Create(ctx, &role); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// Get 角色详情（含菜单ID与接口ID）
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	detail, err := h.graph.RoleDetail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update 更新角色
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req RoleUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if req.Name != nil {
		exist, err := h.roles.Count(ctx, nil, store.Where("name = ? AND id <> ?", *req.Name, id))
		if err != nil {
			h.fail(c, err)
			return
		}
		if exist > 0 {
			h.fail(c, apperr.Conflict("角色名已存在"))
			return
		}
	}
	if _, err := h.roles.Update(ctx, id, req); err != nil {
		h.fail(c, err)
		return
	}
	detail, err := h.graph.RoleDetail(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Delete 删除角色，有关联用户时拒绝
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if _, err := h.roles.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetPermissions 分配菜单与接口权限
// @Summary 分配角色权限
// @Tags 角色
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "角色ID"
// @Param request body RolePermissionsRequest true "菜单ID与接口ID"
// @Success 200 {object} models.RoleDetail
// @Failure 404 {object} ErrorResponse "角色不存在"
// @Failure 422 {object} ErrorResponse "部分菜单ID不存在"
// @Router /roles/{id}/permissions [put]
func (h *RoleHandler) SetPermissions(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req RolePermissionsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	detail, err := h.graph.ReplacePermissions(c.Request.Context(), id, req.MenuIDs, req.APIIDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
