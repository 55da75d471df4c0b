package service

import (
	"fmt"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/dto"
	"agro-order-service/internal/model"
)

// Project arma la vista de la orden para viewerID según su rol en ella.
// Quien no es comprador ni vendedor recibe ErrForbidden.
func Project(o *model.Order, viewerID string) (*dto.OrderView, error) {
	role := o.RoleOf(viewerID)
	if role == "" {
		return nil, fmt.Errorf("%w: el usuario no es parte de la orden", apperr.ErrForbidden)
	}
	return ProjectAs(o, role), nil
}

// ProjectAs arma la vista para un rol dado sin comprobar identidad (uso admin).
func ProjectAs(o *model.Order, role model.Role) *dto.OrderView {
	v := &dto.OrderView{
		ID:       o.OrderID,
		BuyerID:  o.BuyerID,
		SellerID: o.SellerID,
		Product: dto.ProductDTO{
			ListingID:  o.Product.ListingID,
			Name:       o.Product.Name,
			ImageURL:   o.Product.ImageURL,
			PricePerKg: dto.FormatCents(o.Product.PricePerKgCent),
		},
		QuantityKg:      o.QuantityKg,
		UnitPrice:       dto.FormatCents(o.UnitPriceCents),
		Subtotal:        dto.FormatCents(o.SubtotalCents),
		TaxRate:         o.TaxRate,
		Tax:             dto.FormatCents(o.TaxCents),
		ShippingCost:    dto.FormatCents(o.ShippingCents),
		TotalPrice:      dto.FormatCents(o.TotalCents),
		Country:         o.Country,
		ShippingMethod:  o.ShippingMethod,
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: modelToDTOShipping(o.Shipping),
		Status:          o.Status,
		ViewerRole:      role,
		TrackingHistory: historyNewestFirst(o.TrackingHistory),
		Actions:         actionsFor(o.Status, role),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if role == model.RoleBuyer || role == model.RoleSeller {
		v.IsRead = o.IsReadBy(role)
	}
	return v
}

// historyNewestFirst invierte el historial (guardado del más viejo al más nuevo)
// para mostrarlo. Ambas vistas usan esta misma función.
func historyNewestFirst(h []model.TrackingEntry) []dto.TrackingEntryDTO {
	out := make([]dto.TrackingEntryDTO, 0, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		out = append(out, dto.TrackingEntryDTO{
			Status:    h[i].Status,
			Location:  h[i].Location,
			Note:      h[i].Note,
			Timestamp: h[i].Timestamp,
		})
	}
	return out
}

func actionsFor(status model.OrderStatus, role model.Role) []dto.ActionDTO {
	actions := []dto.ActionDTO{}
	if status.IsFinal() {
		return actions
	}
	switch role {
	case model.RoleSeller, model.RoleAdmin:
		if next, ok := status.Next(); ok {
			actions = append(actions, dto.ActionDTO{Type: dto.ActionAdvance, Targets: []model.OrderStatus{next}})
		}
		actions = append(actions, dto.ActionDTO{Type: dto.ActionJump, Targets: status.Above()})
	case model.RoleBuyer:
		actions = append(actions, dto.ActionDTO{Type: dto.ActionConfirmDelivery, Targets: []model.OrderStatus{model.StatusDelivered}})
	}
	return actions
}

func dtoToModelShipping(in dto.ShippingDTO) model.Shipping {
	return model.Shipping{
		AddressLine1: in.AddressLine1,
		City:         in.City,
		PostalCode:   in.PostalCode,
		Province:     in.Province,
		Country:      in.Country,
		Comments:     in.Comments,
	}
}

func modelToDTOShipping(in model.Shipping) dto.ShippingDTO {
	return dto.ShippingDTO{
		AddressLine1: in.AddressLine1,
		City:         in.City,
		PostalCode:   in.PostalCode,
		Province:     in.Province,
		Country:      in.Country,
		Comments:     in.Comments,
	}
}
