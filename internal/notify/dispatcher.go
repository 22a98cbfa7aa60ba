package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
)

// MessageWriter is the slice of kafka.Writer the dispatcher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Dispatcher publishes notification events fire-and-forget: publishing happens
// in a detached goroutine, failures are logged and never reach the caller.
// Payment success and order durability must not depend on this pipeline.
type Dispatcher struct {
	writer  MessageWriter
	timeout time.Duration
}

func NewDispatcher(brokers []string, topic string) *Dispatcher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Dispatcher{writer: w, timeout: 5 * time.Second}
}

// NewDispatcherWithWriter is for tests.
func NewDispatcherWithWriter(writer MessageWriter) *Dispatcher {
	return &Dispatcher{writer: writer, timeout: 5 * time.Second}
}

func (d *Dispatcher) OrderConfirmed(order *domain.Order) {
	d.publish(newEvent(EventOrderConfirmation, order))
	d.publish(newEvent(EventAdminAlert, order))
}

func (d *Dispatcher) OrderStatusChanged(order *domain.Order) {
	d.publish(newEvent(EventStatusUpdate, order))
}

func (d *Dispatcher) publish(event Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		value, err := json.Marshal(event)
		if err != nil {
			log.Printf("failed to marshal notification event: %v", err)
			return
		}

		msg := kafka.Message{
			Key:   []byte(event.OrderNumber),
			Value: value,
		}
		if err := d.writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("failed to publish %s for order %s: %v", event.Type, event.OrderNumber, err)
		}
	}()
}
