package gateways

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	protocols "github.com/giovaniif/order-inventory/order/protocols"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisherKafka writes OrderDecided events keyed by product id.
type EventPublisherKafka struct {
	writer messageWriter
}

// NewKafkaWriter builds an async writer: WriteMessages only enqueues, delivery
// failures are reported to the logger.
func NewKafkaWriter(brokers []string, topic string, logger *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("order event delivery failed", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}
}

func NewEventPublisherKafka(writer messageWriter) *EventPublisherKafka {
	return &EventPublisherKafka{writer: writer}
}

func (p *EventPublisherKafka) PublishOrderDecided(ctx context.Context, event protocols.OrderDecided) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.ProductId),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("OrderDecided")},
		},
	}
	otel.GetTextMapPropagator().Inject(ctx, (*messageCarrier)(&msg))
	return p.writer.WriteMessages(ctx, msg)
}

func (p *EventPublisherKafka) Close() error {
	return p.writer.Close()
}

// messageCarrier lets the otel propagator read and write kafka headers.
type messageCarrier kafka.Message

func (c *messageCarrier) Get(key string) string {
	for _, h := range c.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *messageCarrier) Set(key, value string) {
	for i, h := range c.Headers {
		if h.Key == key {
			c.Headers[i].Value = []byte(value)
			return
		}
	}
	c.Headers = append(c.Headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *messageCarrier) Keys() []string {
	keys := make([]string, 0, len(c.Headers))
	for _, h := range c.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}

// EventPublisherNoop is used when no brokers are configured.
type EventPublisherNoop struct{}

func NewEventPublisherNoop() *EventPublisherNoop {
	return &EventPublisherNoop{}
}

func (EventPublisherNoop) PublishOrderDecided(context.Context, protocols.OrderDecided) error {
	return nil
}

func (EventPublisherNoop) Close() error {
	return nil
}
