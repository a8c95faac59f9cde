package middleware

import "strings"

var staticPrefixes = []string{"/static/", "/docs/", "/redoc/"}

// Whitelist 免认证路径
type Whitelist struct {
	exact []string
}

// NewWhitelist 登录、注册、微信登录、根路径及文档路径
func NewWhitelist(apiPrefix string) *Whitelist {
	return &Whitelist{exact: []string{
		apiPrefix + "/users/login",
		apiPrefix + "/users/register",
		apiPrefix + "/users/wxlogin",
		"/",
		"/docs",
		"/redoc",
		"/openapi.json",
	}}
}

// Allowed 精确匹配，或位于白名单路径之下，或位于静态资源/文档前缀之下
func (w *Whitelist) Allowed(path string) bool {
	for _, p := range w.exact {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	for _, p := range staticPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
