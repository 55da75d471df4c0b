package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agro-order-service/internal/apperr"
)

// Claims del token emitido por el servicio de identidad.
type Claims struct {
	Name        string   `json:"name"`
	Login       string   `json:"login"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// JWTAuthService valida tokens HS256 localmente (AUTH_MODE=jwt).
type JWTAuthService struct {
	secret []byte
}

func NewJWTAuthService(secret string) (*JWTAuthService, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET requerido con AUTH_MODE=jwt")
	}
	return &JWTAuthService{secret: []byte(secret)}, nil
}

func (j *JWTAuthService) ValidateToken(_ context.Context, token string) (*AuthUser, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid or expired token", apperr.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token sin subject", apperr.ErrUnauthorized)
	}

	return &AuthUser{
		ID:          claims.Subject,
		Name:        claims.Name,
		Login:       claims.Login,
		Permissions: claims.Permissions,
		Enabled:     true,
	}, nil
}

// Issue firma un token para userID. Lo usan los tests y el entorno local.
func (j *JWTAuthService) Issue(userID, name string, permissions []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:        name,
		Login:       name,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}
