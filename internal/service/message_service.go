package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/dto"
	"agro-order-service/internal/model"
)

type MessageService struct {
	repo   MessageRepository
	orders OrderRepository
	cache  UnreadCache
	now    func() time.Time
}

func NewMessageService(repo MessageRepository, orders OrderRepository, cache UnreadCache) *MessageService {
	if cache == nil {
		cache = nopCache{}
	}
	return &MessageService{repo: repo, orders: orders, cache: cache, now: func() time.Time { return time.Now().UTC() }}
}

// Send guarda el mensaje. Si lleva orderId, emisor y destinatario deben ser
// las dos partes de esa orden.
func (s *MessageService) Send(ctx context.Context, senderID string, req dto.SendMessageRequest) (*model.Message, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.RecipientID == senderID {
		return nil, fmt.Errorf("%w: no se puede enviar un mensaje a uno mismo", apperr.ErrValidation)
	}
	if req.OrderID != "" {
		o, err := s.orders.FindByOrderID(ctx, req.OrderID)
		if err != nil {
			return nil, err
		}
		if o.RoleOf(senderID) == "" {
			return nil, fmt.Errorf("%w: el usuario no es parte de la orden", apperr.ErrForbidden)
		}
		if o.RoleOf(req.RecipientID) == "" {
			return nil, fmt.Errorf("%w: el destinatario no es parte de la orden", apperr.ErrValidation)
		}
	}

	m := &model.Message{
		ID:          uuid.NewString(),
		OrderID:     req.OrderID,
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, req.RecipientID)
	return m, nil
}

func (s *MessageService) Inbox(ctx context.Context, userID string) ([]model.Message, error) {
	return s.repo.ListForRecipient(ctx, userID)
}

// ForOrder lista la conversación de una orden; solo para sus partes.
func (s *MessageService) ForOrder(ctx context.Context, orderID, viewerID string) ([]model.Message, error) {
	o, err := s.orders.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.RoleOf(viewerID) == "" {
		return nil, fmt.Errorf("%w: el usuario no es parte de la orden", apperr.ErrForbidden)
	}
	return s.repo.ListByOrder(ctx, orderID)
}

func (s *MessageService) MarkRead(ctx context.Context, userID string, ids []string, all bool) (int64, error) {
	if !all && len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids o all requeridos", apperr.ErrValidation)
	}
	if all {
		ids = nil
	}
	n, err := s.repo.MarkRead(ctx, userID, ids, s.now())
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, userID)
	return n, nil
}
