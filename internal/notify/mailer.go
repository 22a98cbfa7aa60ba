package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/segmentio/kafka-go"
)

// Mailer consumes notification events and turns them into provider emails.
// Delivery is best-effort: a failed send is logged and the loop moves on.
type Mailer struct {
	reader     *kafka.Reader
	sender     EmailSender
	adminEmail string
}

func NewMailer(brokers []string, topic string, sender EmailSender, adminEmail string) *Mailer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  "storefront-mailer",
		MaxBytes: 10e6, // 10MB
	})
	return &Mailer{reader: reader, sender: sender, adminEmail: adminEmail}
}

func (m *Mailer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m.processMessage(ctx)
	}
}

func (m *Mailer) Close() {
	if err := m.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (m *Mailer) processMessage(ctx context.Context) {
	msg, err := m.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading notification message: %v", err)
		return
	}

	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("error parsing notification event: %v", err)
		return
	}

	if err := m.deliver(ctx, event); err != nil {
		log.Printf("failed to deliver %s for order %s: %v", event.Type, event.OrderNumber, err)
	}
}

func (m *Mailer) deliver(ctx context.Context, event Event) error {
	to, subject, html := composeEmail(event, m.adminEmail)
	if to == "" {
		return fmt.Errorf("no recipient for event %s", event.Type)
	}
	return m.sender.Send(ctx, to, subject, html)
}

func composeEmail(event Event, adminEmail string) (to, subject, html string) {
	switch event.Type {
	case EventOrderConfirmation:
		to = event.Email
		subject = fmt.Sprintf("Order %s confirmed — Kollect-It", event.OrderNumber)
		html = fmt.Sprintf(
			"<p>Hi %s,</p><p>Thanks for your order <strong>%s</strong>.</p>%s<p>Total: $%.2f</p>",
			event.CustomerName, event.OrderNumber, itemListHTML(event.Items), event.Total)
	case EventAdminAlert:
		to = adminEmail
		subject = fmt.Sprintf("New order %s ($%.2f)", event.OrderNumber, event.Total)
		html = fmt.Sprintf(
			"<p>Order <strong>%s</strong> placed by %s (%s).</p>%s<p>Total: $%.2f</p>",
			event.OrderNumber, event.CustomerName, event.Email, itemListHTML(event.Items), event.Total)
	case EventStatusUpdate:
		to = event.Email
		subject = fmt.Sprintf("Order %s is now %s — Kollect-It", event.OrderNumber, event.Status)
		tracking := ""
		if event.TrackingNumber != "" {
			tracking = fmt.Sprintf("<p>Tracking: %s %s</p>", event.Carrier, event.TrackingNumber)
		}
		html = fmt.Sprintf(
			"<p>Hi %s,</p><p>Your order <strong>%s</strong> is now <strong>%s</strong>.</p>%s",
			event.CustomerName, event.OrderNumber, event.Status, tracking)
	}
	return to, subject, html
}

func itemListHTML(items []EventItem) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, it := range items {
		fmt.Fprintf(&b, "<li>%s × %d — $%.2f</li>", it.Title, it.Quantity, it.UnitPrice)
	}
	b.WriteString("</ul>")
	return b.String()
}
