package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/dto"
	"agro-order-service/internal/logger"
	"agro-order-service/internal/model"
)

type NewsletterService struct {
	subscribers SubscriberRepository
	mailer      Mailer
}

func NewNewsletterService(subscribers SubscriberRepository, mailer Mailer) *NewsletterService {
	return &NewsletterService{subscribers: subscribers, mailer: mailer}
}

func (s *NewsletterService) Subscribe(ctx context.Context, req dto.SubscribeRequest) (*model.Subscriber, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.subscribers.Add(ctx, req.Email)
}

func (s *NewsletterService) Subscribers(ctx context.Context) ([]model.Subscriber, error) {
	return s.subscribers.List(ctx)
}

// Send entrega el boletín a cada suscriptor. Un fallo individual no corta
// el envío: se reporta en el resultado.
func (s *NewsletterService) Send(ctx context.Context, req dto.NewsletterRequest) (*dto.BatchResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	subs, err := s.subscribers.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("%w: no hay suscriptores", apperr.ErrValidation)
	}

	res := &dto.BatchResult{Total: len(subs), FailedAddresses: []string{}}
	for _, sub := range subs {
		if err := s.mailer.Send(ctx, sub.Email, req.Subject, req.Body); err != nil {
			res.Failed++
			res.FailedAddresses = append(res.FailedAddresses, sub.Email)
			logger.Warn("no se pudo enviar el boletín", zap.String("email", sub.Email), zap.Error(err))
			continue
		}
		res.Sent++
	}
	logger.Info("boletín enviado", zap.Int("total", res.Total), zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
	return res, nil
}
