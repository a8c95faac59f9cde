package api

import (
	"net/http"

	"househelper/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler 健康检查与项目信息
type BaseHandler struct {
	base
}

func NewBaseHandler(cfg *config.Config, log *zap.Logger) *BaseHandler {
	return &BaseHandler{base: base{cfg: cfg, log: log}}
}

// Health 健康检查
// @Summary 健康检查
// @Tags 基础
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *BaseHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Info 项目信息
func (h *BaseHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        h.cfg.Project.Name,
		"version":     h.cfg.Project.Version,
		"description": h.cfg.Project.Description,
		"api_prefix":  h.cfg.API.Prefix,
	})
}

// Root 欢迎信息
func (h *BaseHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "欢迎使用 " + h.cfg.Project.Name + " API",
		"docs":    "/docs/index.html",
	})
}
