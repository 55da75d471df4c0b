// auth_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/logger"
	"agro-order-service/internal/service"
)

// Claves del contexto de gin con los datos del usuario autenticado
const (
	CtxUserID      = "userID"
	CtxUserName    = "userName"
	CtxPermissions = "userPermissions"
)

// Middleware que valida el token y guarda la info del usuario en el contexto
func AuthMiddleware(auth service.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header", "kind": "Unauthorized"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)
		user, err := auth.ValidateToken(c.Request.Context(), token)
		if err != nil {
			// Si auth no responde no es culpa del token
			if errors.Is(err, apperr.ErrNetwork) {
				logger.Error("servicio de auth no disponible", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "auth service unavailable", "kind": "NetworkError"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "kind": "Unauthorized"})
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserName, user.Name)
		c.Set(CtxPermissions, user.Permissions)
		c.Next()
	}
}
