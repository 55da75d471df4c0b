package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/logger"
	"agro-order-service/internal/model"
)

// NotificationService calcula los badges de no leídos a partir de las
// entidades. La caché solo evita recalcular en cada poll del cliente.
type NotificationService struct {
	orders     OrderRepository
	quotations QuotationRepository
	listings   ListingRepository
	messages   MessageRepository
	profiles   ProfileRepository
	cache      UnreadCache
}

func NewNotificationService(orders OrderRepository, quotations QuotationRepository, listings ListingRepository,
	messages MessageRepository, profiles ProfileRepository, cache UnreadCache) *NotificationService {
	if cache == nil {
		cache = nopCache{}
	}
	return &NotificationService{
		orders:     orders,
		quotations: quotations,
		listings:   listings,
		messages:   messages,
		profiles:   profiles,
		cache:      cache,
	}
}

func (s *NotificationService) GetUnreadCounts(ctx context.Context, userID string) (*model.UnreadCounts, error) {
	if c, ok := s.cache.Get(ctx, userID); ok {
		return c, nil
	}

	c, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, userID, c)
	return c, nil
}

func (s *NotificationService) compute(ctx context.Context, userID string) (*model.UnreadCounts, error) {
	var c model.UnreadCounts

	orders, err := s.orders.FindByParty(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	c.Orders = CountUnreadOrders(orders, userID)

	if c.Quotations, err = s.quotations.CountUnread(ctx, userID); err != nil {
		return nil, err
	}
	if c.Listings, err = s.listings.CountUnread(ctx, userID); err != nil {
		return nil, err
	}
	if c.Messages, err = s.messages.CountUnread(ctx, userID); err != nil {
		return nil, err
	}

	p, err := s.profiles.Get(ctx, userID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		p = &model.Profile{UserID: userID}
	case err != nil:
		logger.Warn("no se pudo leer el perfil para los contadores", zap.String("userId", userID), zap.Error(err))
		p = nil
	}
	if p != nil {
		c.Profile = len(p.MissingFields())
	}

	c.Total = c.Orders + c.Quotations + c.Listings + c.Messages + c.Profile
	return &c, nil
}

// CountUnreadOrders cuenta cada orden con la bandera del rol que el usuario
// tiene en ella: comprador en A y vendedor en B no se mezclan.
func CountUnreadOrders(orders []*model.Order, userID string) int {
	n := 0
	for _, o := range orders {
		role := o.RoleOf(userID)
		if role == "" {
			continue
		}
		if !o.IsReadBy(role) {
			n++
		}
	}
	return n
}
