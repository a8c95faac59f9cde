package middleware

import (
	"context"

	"househelper/models"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

type userCtxKey struct{}

// SetCurrentUser 将已认证用户写入 gin 上下文与请求 context
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userCtxKey{}, user))
}

// CurrentUser 获取当前用户，未认证时返回 nil
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// UserFromContext 从请求 context 中获取当前用户
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(*models.User)
	return user, ok
}
