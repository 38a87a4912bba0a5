package security

import (
	"Zuno/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret         = []byte("zuno-dev-secret")
	jwtIssuer         = "zuno"
	jwtExpirationTime = 24 * time.Hour
)

// Init 使用配置覆盖签名参数
func Init(cfg config.JWTConfig) {
	if cfg.Secret != "" {
		jwtSecret = []byte(cfg.Secret)
	}
	if cfg.Issuer != "" {
		jwtIssuer = cfg.Issuer
	}
	if cfg.ExpireHours > 0 {
		jwtExpirationTime = time.Duration(cfg.ExpireHours) * time.Hour
	}
}

// UserClaims Token 中携带的用户身份
type UserClaims struct {
	UserID uint64   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// TTL token 剩余有效期
func (c *UserClaims) TTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}
