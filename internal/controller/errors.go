package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/logger"
	"agro-order-service/internal/middleware"
	"agro-order-service/internal/telemetry"
)

// statusFor traduce la taxonomía de errores a códigos HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrInvalidTransition), errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrNetwork):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logger.Error("error interno",
			zap.String("path", c.FullPath()),
			zap.String("userId", c.GetString(middleware.CtxUserID)),
			zap.Error(err))
		telemetry.CaptureError(err, map[string]string{"path": c.FullPath(), "kind": apperr.Kind(err)})
	}
	_ = c.Error(err)
	c.JSON(code, gin.H{"error": err.Error(), "kind": apperr.Kind(err)})
}

// bindJSON hace el binding y responde ValidationError si falla.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return false
	}
	return true
}

func currentUser(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}
