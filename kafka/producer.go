// Package kafka publishes domain events to a Kafka topic. Events are emitted
// after the owning transaction commits and are best-effort: a publish failure
// is logged by the caller, never surfaced to the client.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopswift/backend/models"
	"go.uber.org/zap"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

type orderCreatedEvent struct {
	Event       string             `json:"event"`
	OrderID     string             `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	UserID      string             `json:"userId"`
	TotalAmount float64            `json:"totalAmount"`
	Items       []models.OrderItem `json:"items"`
	Timestamp   time.Time          `json:"timestamp"`
}

func (p *Producer) OrderCreated(ctx context.Context, order *models.Order) error {
	payload, err := json.Marshal(orderCreatedEvent{
		Event:       "order.created",
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.Hex(),
		TotalAmount: order.TotalAmount,
		Items:       order.Items,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID.Hex()),
		Value: payload,
	})
	if err != nil {
		return err
	}

	zap.L().Info("published order created event",
		zap.String("order_id", order.ID.Hex()),
		zap.String("order_number", order.OrderNumber))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
