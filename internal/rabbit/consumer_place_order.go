package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"agro-order-service/internal/dto"
	"agro-order-service/internal/logger"
	"agro-order-service/internal/model"
	"agro-order-service/internal/service"
)

// OrderPlacer lo implementa service.OrderService.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, buyerID string, req dto.PlaceOrderRequest) (*model.Order, error)
}

type PlaceOrderConsumer struct {
	Service OrderPlacer
}

func NewPlaceOrderConsumer(s OrderPlacer) *PlaceOrderConsumer {
	return &PlaceOrderConsumer{Service: s}
}

// Mensaje que publica el checkout en el exchange order_placed.
// Cada artículo es una publicación; si hay más de uno se crea una orden por artículo.
type PlacedOrderMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderID  string `json:"orderId"`
		UserID   string `json:"userId"`
		Articles []struct {
			ArticleID string  `json:"articleId"`
			Quantity  float64 `json:"quantity"`
		} `json:"articles"`
		Country        string          `json:"country"`
		ShippingMethod string          `json:"shippingMethod"`
		PaymentMethod  string          `json:"paymentMethod"`
		Shipping       dto.ShippingDTO `json:"shipping"`
	} `json:"message"`
}

func (c *PlaceOrderConsumer) Handle(ctx context.Context, msg []byte) error {
	var event PlacedOrderMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		logger.Error("error parseando mensaje order_placed", zap.Error(err))
		return err
	}
	m := event.Message
	logger.Info("evento recibido: order_placed",
		zap.String("correlationId", event.CorrelationID),
		zap.String("orderId", m.OrderID),
		zap.Int("articles", len(m.Articles)))

	if len(m.Articles) == 0 {
		return fmt.Errorf("orden %s sin artículos", m.OrderID)
	}

	var errs []error
	for i, a := range m.Articles {
		orderID := m.OrderID
		if len(m.Articles) > 1 && orderID != "" {
			orderID = fmt.Sprintf("%s-%d", m.OrderID, i+1)
		}
		_, err := c.Service.PlaceOrder(ctx, m.UserID, dto.PlaceOrderRequest{
			OrderID:        orderID,
			ListingID:      a.ArticleID,
			QuantityKg:     a.Quantity,
			Country:        m.Country,
			ShippingMethod: m.ShippingMethod,
			PaymentMethod:  m.PaymentMethod,
			Shipping:       m.Shipping,
		})
		switch {
		case errors.Is(err, service.ErrOrderAlreadyExists):
			logger.Info("orden ya inicializada, se ignora", zap.String("orderId", orderID))
		case err != nil:
			logger.Error("error creando orden desde checkout", zap.String("orderId", orderID), zap.Error(err))
			errs = append(errs, err)
		default:
			logger.Info("orden creada desde checkout", zap.String("orderId", orderID))
		}
	}
	return errors.Join(errs...)
}
