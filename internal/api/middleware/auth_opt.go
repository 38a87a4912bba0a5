package middleware

import (
	"Zuno/internal/pkg/consts"
	"Zuno/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则 UID 为 0
func AuthOptionalMiddleware(blacklist security.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(consts.UserIDKey, uint64(0))

		token, ok := security.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := security.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		if blacklist != nil {
			signature, err := security.ExtractSignature(token)
			if err != nil {
				c.Next()
				return
			}
			if revoked, err := blacklist.IsRevoked(c.Request.Context(), signature); err != nil || revoked {
				c.Next()
				return
			}
		}

		setIdentity(c, claims)
		c.Next()
	}
}
