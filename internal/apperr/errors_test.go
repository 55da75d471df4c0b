package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	cases := map[string]error{
		"NotFound":          fmt.Errorf("%w: orden 1", ErrNotFound),
		"Forbidden":         ErrForbidden,
		"Unauthorized":      fmt.Errorf("%w: token vencido", ErrUnauthorized),
		"InvalidTransition": fmt.Errorf("%w: Delivered -> Pending", ErrInvalidTransition),
		"ValidationError":   fmt.Errorf("%w: quantityKg", ErrValidation),
		"Conflict":          ErrConflict,
		"NetworkError":      fmt.Errorf("%w: auth down", ErrNetwork),
		"PersistenceError":  errors.New("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, Kind(err))
	}
}
