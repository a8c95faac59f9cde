package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const rateLimitCacheSize = 10000

// LoginRateLimit 登录接口限流中间件
// 每个 IP 在 window 内最多 maxAttempts 次尝试，超过返回 429。按 IP 的限流器保存在有界 LRU 中
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	if maxAttempts <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiters, err := lru.New[string, *rate.Limiter](rateLimitCacheSize)
	if err != nil {
		panic(err)
	}
	every := rate.Every(window / time.Duration(maxAttempts))

	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter, ok := limiters.Get(ip)
		if !ok {
			limiter = rate.NewLimiter(every, maxAttempts)
			if prev, found, _ := limiters.PeekOrAdd(ip, limiter); found {
				limiter = prev
			}
		}
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail": "登录尝试过于频繁，请稍后再试",
			})
			return
		}
		c.Next()
	}
}
