// admin_only.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IsAdmin indica si el usuario autenticado tiene el permiso "admin".
func IsAdmin(c *gin.Context) bool {
	for _, p := range c.GetStringSlice(CtxPermissions) {
		if p == "admin" {
			return true
		}
	}
	return false
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required", "kind": "Forbidden"})
			return
		}
		c.Next()
	}
}
