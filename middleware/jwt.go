package middleware

import (
	"fmt"
	"strings"
	"time"

	"househelper/apperr"
	"househelper/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 访问令牌载荷，sub 为用户名或微信 openid
type Claims struct {
	UserID uint `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager 签发与校验 HMAC 令牌
type JWTManager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewJWTManager 按配置创建，algorithm 仅支持 HS256/HS384/HS512
func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt.secret 未配置")
	}
	method, ok := jwt.GetSigningMethod(strings.ToUpper(cfg.Algorithm)).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("不支持的签名算法: %s", cfg.Algorithm)
	}
	ttl := cfg.ExpireTime
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTManager{secret: []byte(cfg.Secret), method: method, ttl: ttl}, nil
}

// Issue 签发令牌，ttl <= 0 时使用默认有效期
func (m *JWTManager) Issue(subject string, userID uint, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
}

// Verify 校验签名、算法与有效期
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, apperr.Unauthorized("无效的身份验证凭据")
	}
	return claims, nil
}
