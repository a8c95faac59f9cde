package api

import (
	"net/http"
	"strings"

	"househelper/apperr"
	"househelper/config"
	"househelper/models"
	"househelper/rbac"
	"househelper/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// APIHandler 接口权限记录管理
type APIHandler struct {
	base
	apis *store.Store[models.API]
}

func NewAPIHandler(cfg *config.Config, log *zap.Logger, db *gorm.DB) *APIHandler {
	return &APIHandler{
		base: base{cfg: cfg, log: log},
		apis: store.New(db, store.Options[models.API]{
			NotFoundMessage: "API不存在",
			ConflictMessage: "相同路径和方法的API已存在",
			BeforeDelete:    rbac.BeforeAPIDelete,
		}),
	}
}

type APICreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Path        string `json:"path" binding:"required,min=1,max=200"`
	Method      string `json:"method" binding:"required"`
	Description string `json:"description" binding:"omitempty,max=200"`
}

type APIUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=50"`
	Path        *string `json:"path" binding:"omitempty,min=1,max=200"`
	Method      *string `json:"method"`
	Description *string `json:"description" binding:"omitempty,max=200"`
}

// Apply 实现 store.Patch
func (r APIUpdateRequest) Apply(a *models.API) []string {
	var cols []string
	if r.Name != nil {
		a.Name = *r.Name
		cols = append(cols, "name")
	}
	if r.Path != nil {
		a.Path = *r.Path
		cols = append(cols, "path")
	}
	if r.Method != nil {
		a.Method = *r.Method
		cols = append(cols, "method")
	}
	if r.Description != nil {
		a.Description = *r.Description
		cols = append(cols, "description")
	}
	return cols
}

// normalizeMethod 统一为大写并校验
func normalizeMethod(method string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	if !allowedMethods[m] {
		return "", apperr.Validation("method 必须是 GET、POST、PUT、DELETE、PATCH 之一")
	}
	return m, nil
}

// List 接口列表
// @Summary 接口列表
// @Tags 接口
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数"
// @Param limit query int false "返回条数"
// @Success 200 {object} ListResponse[models.API]
// @Router /apis/ [get]
func (h *APIHandler) List(c *gin.Context) {
	var page store.Page
	if !h.bindQuery(c, &page) {
		return
	}
	page = page.Normalize(store.DefaultLimit)
	ctx := c.Request.Context()
	total, err := h.apis.Count(ctx, nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	items, err := h.apis.List(ctx, page.Skip, page.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse[models.API]{Total: total, Items: items})
}

// Create 创建接口记录
func (h *APIHandler) Create(c *gin.Context) {
	var req APICreateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	method, err := normalizeMethod(req.Method)
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	exist, err := h.apis.Count(ctx, map[string]interface{}{"path": req.Path, "method": method})
	if err != nil {
		h.fail(c, err)
		return
	}
	if exist > 0 {
		h.fail(c, apperr.Conflict("相同路径和方法的API已存在"))
		return
	}
	api := models.API{Name: req.Name, Path: req.Path, Method: method, Description: req.Description}
	if err := h.apis.Create(ctx, &api); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, api)
}

// Get 接口详情
func (h *APIHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	api, err := h.apis.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api)
}

// Update 更新接口记录，路径或方法变化时检查唯一性
func (h *APIHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req APIUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.Method != nil {
		method, err := normalizeMethod(*req.Method)
		if err != nil {
			h.fail(c, err)
			return
		}
		req.Method = &method
	}

	ctx := c.Request.Context()
	current, err := h.apis.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if req.Path != nil || req.Method != nil {
		path, method := current.Path, current.Method
		if req.Path != nil {
			path = *req.Path
		}
		if req.Method != nil {
			method = *req.Method
		}
		exist, err := h.apis.Count(ctx, nil, store.Where("path = ? AND method = ? AND id <> ?", path, method, id))
		if err != nil {
			h.fail(c, err)
			return
		}
		if exist > 0 {
			h.fail(c, apperr.Conflict("相同路径和方法的API已存在"))
			return
		}
	}

	api, err := h.apis.Update(ctx, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api)
}

// Delete 删除接口记录，同时解除与角色的关联
func (h *APIHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if _, err := h.apis.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
