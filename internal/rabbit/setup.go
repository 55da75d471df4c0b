// setup.go
package rabbit

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"agro-order-service/internal/logger"
)

const (
	placedExchange = "order_placed"
	placedQueue    = "agro_order_service_orders"
)

// SetupConsumers suscribe el servicio al exchange fanout order_placed.
// Los mensajes se procesan hasta que ctx se cancela o el canal se cierra.
func SetupConsumers(ctx context.Context, ch *amqp091.Channel, placer OrderPlacer) error {
	consumer := NewPlaceOrderConsumer(placer)

	// 1. Declarar exchange y queue
	if err := ch.ExchangeDeclare(placedExchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	q, err := ch.QueueDeclare(
		placedQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	// 2. Bindear al exchange fanout
	err = ch.QueueBind(
		q.Name,
		"", // fanout ignora routing key
		placedExchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	// 3. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					logger.Warn("canal de rabbit cerrado, se detiene el consumer")
					return
				}
				_ = consumer.Handle(ctx, m.Body)
			}
		}
	}()

	logger.Info("suscrito a exchange", zap.String("exchange", placedExchange), zap.String("queue", q.Name))
	return nil
}
