// Package logger 基于 zap 的结构化日志以及 gin 访问日志、panic 恢复中间件
package logger

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"househelper/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TraceIDKey gin 上下文中保存请求追踪 ID 的键
const TraceIDKey = "trace_id"

// New 根据配置创建 logger
// release 模式使用 JSON 编码，其余使用控制台编码；配置了 log.file 时同时写入文件
func New(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Log.Level, err)
	}

	var base zap.Config
	if cfg.IsRelease() {
		base = zap.NewProductionConfig()
	} else {
		base = zap.NewDevelopmentConfig()
	}
	enc := base.EncoderConfig
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder

	var encoder zapcore.Encoder
	if cfg.IsRelease() {
		encoder = zapcore.NewJSONEncoder(enc)
	} else {
		encoder = zapcore.NewConsoleEncoder(enc)
	}

	sinks := []zapcore.WriteSyncer{zapcore.Lock(zapcore.AddSync(os.Stdout))}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		sinks = append(sinks, zapcore.Lock(zapcore.AddSync(f)))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// GinLogger 每个请求输出一行访问日志
func GinLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("trace_id", c.GetString(TraceIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("HTTP Request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("HTTP Request", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}
	}
}

// GinRecovery 捕获 panic，记录堆栈并返回 500
func GinRecovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					zap.Any("error", err),
					zap.ByteString("stack", debug.Stack()),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("trace_id", c.GetString(TraceIDKey)),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "服务器内部错误"})
			}
		}()
		c.Next()
	}
}
