package middleware

import (
	"context"
	"strings"

	"househelper/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceHeader 请求追踪 ID 的响应头
const TraceHeader = "X-Trace-Id"

type traceCtxKey struct{}

// Trace 优先沿用客户端传入的追踪 ID，否则生成新的
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = strings.ReplaceAll(uuid.New().String(), "-", "")
		}
		c.Set(logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), traceCtxKey{}, traceID))
		c.Header(TraceHeader, traceID)
		c.Next()
	}
}

// TraceID 从请求 context 中获取追踪 ID
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceCtxKey{}).(string)
	return id
}
