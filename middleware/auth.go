package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"househelper/apperr"
	"househelper/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserResolver 根据令牌载荷查找用户
type UserResolver interface {
	ResolveUser(ctx context.Context, claims *Claims) (*models.User, error)
}

// DBUserResolver 先按用户名、再按微信 openid 查找
type DBUserResolver struct {
	db *gorm.DB
}

func NewDBUserResolver(db *gorm.DB) *DBUserResolver {
	return &DBUserResolver{db: db}
}

func (r *DBUserResolver) ResolveUser(ctx context.Context, claims *Claims) (*models.User, error) {
	db := r.db.WithContext(ctx)
	var user models.User
	err := db.Where("username = ?", claims.Subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Where("openid = ?", claims.Subject).First(&user).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("用户不存在或已被删除")
		}
		return nil, apperr.Internal("查询用户失败", err)
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("用户已被禁用")
	}
	return &user, nil
}

// AuthGate 认证中间件：白名单直接放行，其余请求必须携带有效的 Bearer 令牌
func AuthGate(jwtm *JWTManager, resolver UserResolver, wl *Whitelist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if wl.Allowed(c.Request.URL.Path) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") || strings.TrimSpace(header[len("Bearer "):]) == "" {
			abortUnauthenticated(c, apperr.Unauthorized("未提供身份验证凭据"))
			return
		}

		claims, err := jwtm.Verify(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			abortUnauthenticated(c, err)
			return
		}

		user, err := resolver.ResolveUser(c.Request.Context(), claims)
		if err != nil {
			abortUnauthenticated(c, err)
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, err error) {
	if apperr.Status(err) == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	abortWithError(c, err)
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(apperr.Status(err), gin.H{"detail": apperr.Message(err)})
}
