package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/dto"
	"agro-order-service/internal/logger"
	"agro-order-service/internal/model"
)

var tracer = otel.Tracer("agro-order-service/service")

var ErrOrderAlreadyExists = fmt.Errorf("%w: la orden ya fue inicializada previamente", apperr.ErrConflict)

type OrderService struct {
	repo      OrderRepository
	listings  ListingRepository
	publisher EventPublisher
	cache     UnreadCache
	now       func() time.Time
}

type OrderOption func(*OrderService)

func WithPublisher(p EventPublisher) OrderOption {
	return func(s *OrderService) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithUnreadCache(c UnreadCache) OrderOption {
	return func(s *OrderService) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func NewOrderService(r OrderRepository, listings ListingRepository, opts ...OrderOption) *OrderService {
	s := &OrderService{
		repo:      r,
		listings:  listings,
		publisher: nopPublisher{},
		cache:     nopCache{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// OrderEvent es el mensaje que se publica en cada cambio de la orden.
type OrderEvent struct {
	Event     string            `json:"event"`
	OrderID   string            `json:"orderId"`
	BuyerID   string            `json:"buyerId"`
	SellerID  string            `json:"sellerId"`
	Status    model.OrderStatus `json:"status"`
	Previous  model.OrderStatus `json:"previous,omitempty"`
	ActorID   string            `json:"actorId,omitempty"`
	Warning   string            `json:"warning,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

// PlaceOrder crea la orden a partir de una publicación aprobada. Precio,
// impuesto y envío quedan congelados; el estado inicial siempre es Pending.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID string, req dto.PlaceOrderRequest) (*model.Order, error) {
	if buyerID == "" {
		return nil, fmt.Errorf("%w: buyerId requerido", apperr.ErrValidation)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	orderID := req.OrderID
	if orderID != "" {
		// Si ya existe no hacemos nada (reentrega del mensaje de checkout)
		existing, err := s.repo.FindByOrderID(ctx, orderID)
		if err == nil && existing != nil {
			return nil, ErrOrderAlreadyExists
		}
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
	} else {
		orderID = uuid.NewString()
	}

	listing, err := s.listings.FindByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != model.ListingApproved {
		return nil, fmt.Errorf("%w: la publicación no está disponible", apperr.ErrValidation)
	}
	if listing.SellerID == buyerID {
		return nil, fmt.Errorf("%w: no se puede comprar una publicación propia", apperr.ErrValidation)
	}
	if listing.MinOrderKg > 0 && req.QuantityKg < listing.MinOrderKg {
		return nil, fmt.Errorf("%w: la cantidad mínima es %.2f kg", apperr.ErrValidation, listing.MinOrderKg)
	}

	price, err := PriceOrder(req.QuantityKg, listing.PricePerKgCents, req.Country, req.ShippingMethod)
	if err != nil {
		return nil, err
	}

	shipping := req.Shipping
	if shipping.Country == "" {
		shipping.Country = req.Country
	}

	now := s.now()
	o := &model.Order{
		OrderID:  orderID,
		BuyerID:  buyerID,
		SellerID: listing.SellerID,
		Product: model.ProductSnapshot{
			ListingID:      listing.ID,
			Name:           listing.Name,
			ImageURL:       listing.ImageURL,
			PricePerKgCent: listing.PricePerKgCents,
		},
		QuantityKg:     req.QuantityKg,
		UnitPriceCents: listing.PricePerKgCents,
		SubtotalCents:  ToCents(price.Subtotal),
		TaxRate:        price.TaxRate.String(),
		TaxCents:       ToCents(price.Tax),
		ShippingCents:  ToCents(price.Shipping),
		TotalCents:     ToCents(price.Total),
		Country:        req.Country,
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  req.PaymentMethod,
		Shipping:       dtoToModelShipping(shipping),
		Status:         model.StatusPending,
		TrackingHistory: []model.TrackingEntry{
			{
				Status:    model.StatusPending,
				Note:      "Orden creada",
				UserID:    buyerID,
				Timestamp: now,
			},
		},
		IsReadByBuyer:  true,
		IsReadBySeller: false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, o.BuyerID, o.SellerID)
	s.publish(ctx, OrderEvent{
		Event:     EventOrderCreated,
		OrderID:   o.OrderID,
		BuyerID:   o.BuyerID,
		SellerID:  o.SellerID,
		Status:    o.Status,
		ActorID:   buyerID,
		Timestamp: now,
	})

	logger.Info("orden creada",
		zap.String("orderId", o.OrderID),
		zap.String("buyerId", o.BuyerID),
		zap.String("sellerId", o.SellerID),
		zap.Int64("totalCents", o.TotalCents))
	return o, nil
}

type AdvanceInput struct {
	OrderID string
	Target  model.OrderStatus
	ActorID string
	// AsAdmin permite actuar con permisos de vendedor sin ser parte de la orden.
	AsAdmin bool
	// RequireRole restringe la operación a un rol (ej. confirmar entrega).
	RequireRole model.Role
	Location    string
	Note        string
}

type TransitionResult struct {
	Order      *model.Order
	ActingRole model.Role
	Warning    string
}

// AdvanceStatus valida y aplica la transición. Se hace un solo intento: si el
// estado cambió entre la lectura y la escritura se devuelve ErrConflict.
func (s *OrderService) AdvanceStatus(ctx context.Context, in AdvanceInput) (*TransitionResult, error) {
	ctx, span := tracer.Start(ctx, "OrderService.AdvanceStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", in.OrderID),
		attribute.String("order.target_status", string(in.Target)),
	)

	res, err := s.advance(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.Kind(err))
		return nil, err
	}
	span.SetAttributes(attribute.String("order.acting_role", string(res.ActingRole)))
	return res, nil
}

func (s *OrderService) advance(ctx context.Context, in AdvanceInput) (*TransitionResult, error) {
	ord, err := s.repo.FindByOrderID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}

	role := ord.RoleOf(in.ActorID)
	if role == "" && in.AsAdmin {
		role = model.RoleAdmin
	}
	if role == "" {
		return nil, fmt.Errorf("%w: el usuario no es parte de la orden", apperr.ErrForbidden)
	}
	if in.RequireRole != "" && role != in.RequireRole {
		return nil, fmt.Errorf("%w: operación reservada al rol %s", apperr.ErrForbidden, in.RequireRole)
	}

	current := ord.Status
	if err := CheckTransition(current, in.Target, role); err != nil {
		return nil, err
	}

	now := s.now()
	entry := model.TrackingEntry{
		Status:    in.Target,
		Location:  in.Location,
		Note:      in.Note,
		UserID:    in.ActorID,
		Timestamp: now,
	}

	updated, err := s.repo.UpdateStatus(ctx, in.OrderID, current, entry, readFlagsAfter(role))
	if err != nil {
		return nil, err
	}

	warning := transitionWarning(current, in.Target)

	s.cache.Invalidate(ctx, updated.BuyerID, updated.SellerID)
	s.publish(ctx, OrderEvent{
		Event:     EventOrderStatusChanged,
		OrderID:   updated.OrderID,
		BuyerID:   updated.BuyerID,
		SellerID:  updated.SellerID,
		Status:    updated.Status,
		Previous:  current,
		ActorID:   in.ActorID,
		Warning:   warning,
		Timestamp: now,
	})

	logger.Info("estado de orden actualizado",
		zap.String("orderId", updated.OrderID),
		zap.String("from", string(current)),
		zap.String("to", string(updated.Status)),
		zap.String("role", string(role)))

	return &TransitionResult{Order: updated, ActingRole: role, Warning: warning}, nil
}

// ConfirmDelivery es la única transición disponible para el comprador.
func (s *OrderService) ConfirmDelivery(ctx context.Context, orderID, buyerID, location string) (*TransitionResult, error) {
	return s.AdvanceStatus(ctx, AdvanceInput{
		OrderID:     orderID,
		Target:      model.StatusDelivered,
		ActorID:     buyerID,
		RequireRole: model.RoleBuyer,
		Location:    location,
		Note:        "Entrega confirmada por el comprador",
	})
}

// GetForViewer devuelve la proyección de la orden para quien la mira.
func (s *OrderService) GetForViewer(ctx context.Context, orderID, viewerID string) (*dto.OrderView, error) {
	o, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return Project(o, viewerID)
}

// ListForViewer lista las órdenes del usuario en el rol pedido (o en ambos si role es vacío).
func (s *OrderService) ListForViewer(ctx context.Context, viewerID string, role model.Role) ([]*dto.OrderView, error) {
	if role != "" && !role.Valid() {
		return nil, fmt.Errorf("%w: rol inválido %q", apperr.ErrValidation, role)
	}
	orders, err := s.repo.FindByParty(ctx, viewerID, role)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	out := make([]*dto.OrderView, 0, len(orders))
	for _, o := range orders {
		v, err := Project(o, viewerID)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// GetLatest devuelve la última entrada del historial.
func (s *OrderService) GetLatest(ctx context.Context, orderID, viewerID string, isAdmin bool) (*model.TrackingEntry, error) {
	o, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.RoleOf(viewerID) == "" {
		return nil, fmt.Errorf("%w: no puede ver la orden de otro usuario", apperr.ErrForbidden)
	}
	last, ok := o.Latest()
	if !ok {
		return nil, fmt.Errorf("%w: la orden no tiene historial", apperr.ErrPersistence)
	}
	return &last, nil
}

// Getters admin
func (s *OrderService) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	return s.repo.FindByOrderID(ctx, orderID)
}

func (s *OrderService) GetAll(ctx context.Context) ([]*model.Order, error) {
	return s.repo.FindAll(ctx)
}

func (s *OrderService) GetByStatus(ctx context.Context, status model.OrderStatus) ([]*model.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado desconocido %q", apperr.ErrValidation, status)
	}
	return s.repo.FindByStatus(ctx, status)
}

// MarkRead marca como leídas las órdenes indicadas (o todas) solo para el rol
// del usuario. Repetir la llamada no cambia nada ni devuelve error.
func (s *OrderService) MarkRead(ctx context.Context, userID string, role model.Role, ids []string, all bool) (int64, error) {
	if !role.Valid() {
		return 0, fmt.Errorf("%w: rol inválido %q", apperr.ErrValidation, role)
	}
	if !all && len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids o all requeridos", apperr.ErrValidation)
	}
	if all {
		ids = nil
	}
	n, err := s.repo.MarkRead(ctx, userID, role, ids)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, userID)
	return n, nil
}

func (s *OrderService) publish(ctx context.Context, ev OrderEvent) {
	if err := s.publisher.Publish(ctx, ev.Event, ev); err != nil {
		logger.Warn("no se pudo publicar el evento de orden",
			zap.String("event", ev.Event),
			zap.String("orderId", ev.OrderID),
			zap.Error(err))
	}
}
