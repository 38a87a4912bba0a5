package middleware

import (
	"Zuno/internal/pkg/consts"
	"Zuno/internal/pkg/response"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// CheckRoles 须在 AuthMiddleware 之后，持有任一角色即放行
func CheckRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := c.GetStringSlice(consts.RolesKey)
		if !slices.ContainsFunc(roles, func(r string) bool { return slices.Contains(allowed, r) }) {
			response.Fail(c, http.StatusForbidden, "permission denied")
			c.Abort()
			return
		}
		c.Next()
	}
}
