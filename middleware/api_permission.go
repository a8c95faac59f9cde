package middleware

import (
	"context"
	"strings"

	"househelper/apperr"
	"househelper/models"

	"github.com/gin-gonic/gin"
)

// RoleAPISource 查询角色被授予的接口
type RoleAPISource interface {
	RoleAPIs(ctx context.Context, roleID uint) ([]models.API, error)
}

// APIPermission 接口权限校验中间件，需在 AuthGate 之后使用
// 超级管理员绕过；其余用户的 METHOD+路径 必须匹配角色下任一接口记录。exempt 中的路径只要求登录
func APIPermission(source RoleAPISource, exempt ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(exempt))
	for _, p := range exempt {
		skip[p] = true
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		// 白名单请求没有当前用户
		if user == nil || user.IsSuperuser || skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		if user.RoleID == nil {
			abortWithError(c, apperr.Forbidden("权限不足"))
			return
		}

		apis, err := source.RoleAPIs(c.Request.Context(), *user.RoleID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if matchAPIPermission(c.Request.Method, c.Request.URL.Path, apis) {
			c.Next()
			return
		}
		abortWithError(c, apperr.Forbidden("权限不足"))
	}
}

// matchAPIPermission 检查 method+path 是否匹配任一接口记录
func matchAPIPermission(method, path string, apis []models.API) bool {
	for _, a := range apis {
		if !strings.EqualFold(a.Method, method) {
			continue
		}
		if matchPath(path, a.Path) {
			return true
		}
	}
	return false
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return p
}

// matchPath 检查实际路径是否匹配 pattern，:id 等占位符匹配单个非空段
// /api/v1/users/123 匹配 /api/v1/users/:id，末尾斜杠不影响匹配
func matchPath(actual, pattern string) bool {
	a := splitPath(normalizePath(actual))
	p := splitPath(normalizePath(pattern))
	if len(a) != len(p) {
		return false
	}
	for i := range a {
		if strings.HasPrefix(p[i], ":") {
			if a[i] == "" {
				return false
			}
			continue
		}
		if a[i] != p[i] {
			return false
		}
	}
	return true
}

func splitPath(s string) []string {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}
