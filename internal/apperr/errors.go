// errors.go
package apperr

import "errors"

// Taxonomía de errores compartida por repositorios, servicios y controllers.
// Las capas inferiores envuelven con fmt.Errorf("%w: ...") y el controller
// decide el código HTTP con errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrValidation        = errors.New("validation error")
	ErrPersistence       = errors.New("persistence error")
	ErrNetwork           = errors.New("network error")
	ErrConflict          = errors.New("el recurso fue modificado concurrentemente")
)

// Kind devuelve el nombre corto del error para el cuerpo de la respuesta.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrInvalidTransition):
		return "InvalidTransition"
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrNetwork):
		return "NetworkError"
	default:
		return "PersistenceError"
	}
}
