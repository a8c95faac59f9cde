package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"househelper/apperr"
	"househelper/config"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ListResponse 带总数的列表响应
type ListResponse[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

// TokenResponse 登录响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// base 各 handler 共用的配置与日志
type base struct {
	cfg *config.Config
	log *zap.Logger
}

// fail 按错误类别输出 {"detail": ...}
// 内部错误在 release 模式下只返回兜底文案
func (b base) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status := apperr.Status(err)
	msg := apperr.Message(err)
	if status >= http.StatusInternalServerError {
		b.log.Error("请求处理失败",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Err != nil {
			msg = b.cfg.SafeErrorMessage(appErr.Err, appErr.Message)
		} else if !errors.As(err, &appErr) {
			msg = b.cfg.SafeErrorMessage(err, "服务器内部错误")
		}
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: msg})
}

// bind 绑定请求参数，失败时返回 422
func (b base) bind(c *gin.Context, obj interface{}, bindFn func(interface{}) error) bool {
	if err := bindFn(obj); err != nil {
		b.fail(c, apperr.Validation(bindErrorMessage(err)))
		return false
	}
	return true
}

func (b base) bindJSON(c *gin.Context, obj interface{}) bool {
	return b.bind(c, obj, c.ShouldBindJSON)
}

func (b base) bindQuery(c *gin.Context, obj interface{}) bool {
	return b.bind(c, obj, c.ShouldBindQuery)
}

// parseID 解析路径中的 :id
func (b base) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		b.fail(c, apperr.Validation("无效的ID"))
		return 0, false
	}
	return uint(id), true
}

func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fieldErrorMessage(fe))
		}
		return strings.Join(parts, "; ")
	}
	return "参数错误: " + err.Error()
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s 不能为空", field)
	case "gte", "min":
		return fmt.Sprintf("%s 不能小于 %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s 不能大于 %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s 不是有效的邮箱地址", field)
	case "notfuture":
		return fmt.Sprintf("%s 不能是未来日期", field)
	default:
		return fmt.Sprintf("%s 校验失败: %s", field, fe.Tag())
	}
}
