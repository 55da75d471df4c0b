package service

import (
	"fmt"
	"strings"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/model"
)

// CheckTransition valida un cambio de estado para el rol que actúa.
// El comprador solo puede confirmar la entrega; el vendedor (y el admin)
// puede pasar a cualquier estado de rango mayor.
func CheckTransition(current, target model.OrderStatus, role model.Role) error {
	if current.IsFinal() {
		return fmt.Errorf("%w: la orden ya fue entregada", apperr.ErrInvalidTransition)
	}
	if !target.Valid() {
		return fmt.Errorf("%w: estado desconocido %q", apperr.ErrValidation, target)
	}

	switch role {
	case model.RoleBuyer:
		if target != model.StatusDelivered {
			return fmt.Errorf("%w: el comprador solo puede confirmar la entrega", apperr.ErrInvalidTransition)
		}
	case model.RoleSeller, model.RoleAdmin:
		if target.Rank() <= current.Rank() {
			return fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, current, target)
		}
	default:
		return fmt.Errorf("%w: rol %q sin permiso", apperr.ErrInvalidTransition, role)
	}
	return nil
}

// transitionWarning avisa cuando la transición es válida pero salta etapas.
// Las etapas salteadas no se agregan al historial.
func transitionWarning(current, target model.OrderStatus) string {
	skipped := current.Between(target)
	if len(skipped) == 0 {
		return ""
	}
	names := make([]string, len(skipped))
	for i, s := range skipped {
		names[i] = string(s)
	}
	return "se omitieron etapas intermedias: " + strings.Join(names, ", ")
}

// readFlagsAfter: quien hizo el cambio ya lo vio, la contraparte queda sin leer.
func readFlagsAfter(actor model.Role) model.ReadFlags {
	switch actor {
	case model.RoleBuyer:
		return model.ReadFlags{Buyer: true, Seller: false}
	case model.RoleSeller:
		return model.ReadFlags{Buyer: false, Seller: true}
	}
	return model.ReadFlags{}
}
