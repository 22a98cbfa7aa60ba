package notify

import (
	"time"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
)

type EventType string

const (
	EventOrderConfirmation EventType = "order.confirmation"
	EventAdminAlert        EventType = "order.admin_alert"
	EventStatusUpdate      EventType = "order.status_update"
)

type EventItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Event is the message published to the notification topic. It carries
// everything the mailer needs so it never has to read the database.
type Event struct {
	Type           EventType   `json:"type"`
	OrderNumber    string      `json:"order_number"`
	Email          string      `json:"email"`
	CustomerName   string      `json:"customer_name"`
	Status         string      `json:"status"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
	Carrier        string      `json:"carrier,omitempty"`
	Total          float64     `json:"total"`
	Items          []EventItem `json:"items"`
	OccurredAt     time.Time   `json:"occurred_at"`
}

func eventItems(order *domain.Order) []EventItem {
	items := make([]EventItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, EventItem{
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return items
}

func newEvent(t EventType, order *domain.Order) Event {
	return Event{
		Type:           t,
		OrderNumber:    order.OrderNumber,
		Email:          order.ShippingAddress.Email,
		CustomerName:   order.ShippingAddress.Name,
		Status:         order.Status.String(),
		TrackingNumber: order.TrackingNumber,
		Carrier:        order.Carrier,
		Total:          order.Total,
		Items:          eventItems(order),
		OccurredAt:     time.Now(),
	}
}
