package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"agro-order-service/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct traduce los errores del validator a ErrValidation con la
// lista de campos que fallaron.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", apperr.ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
}
