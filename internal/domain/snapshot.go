package domain

import (
	"encoding/json"
	"fmt"
)

// CheckoutSnapshot is the server-computed cart state embedded in the payment
// intent's metadata. It rides through the provider and comes back as the only
// trusted source for order materialization.
type CheckoutSnapshot struct {
	Items           []OrderItem     `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	Shipping        float64         `json:"shipping"`
	Total           float64         `json:"total"`
	Email           string          `json:"email"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
}

const (
	metadataItemsKey    = "items"
	metadataTotalsKey   = "totals"
	metadataShippingKey = "shipping"
	metadataEmailKey    = "email"
)

type snapshotTotals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ToMetadata flattens the snapshot into the provider's string-to-string
// metadata channel.
func (s *CheckoutSnapshot) ToMetadata() (map[string]string, error) {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot items: %w", err)
	}
	totals, err := json.Marshal(snapshotTotals{
		Subtotal: s.Subtotal,
		Tax:      s.Tax,
		Shipping: s.Shipping,
		Total:    s.Total,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot totals: %w", err)
	}
	shipping, err := json.Marshal(s.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot shipping: %w", err)
	}

	return map[string]string{
		metadataItemsKey:    string(items),
		metadataTotalsKey:   string(totals),
		metadataShippingKey: string(shipping),
		metadataEmailKey:    s.Email,
	}, nil
}

func SnapshotFromMetadata(md map[string]string) (*CheckoutSnapshot, error) {
	itemsJSON, ok := md[metadataItemsKey]
	if !ok || itemsJSON == "" {
		return nil, fmt.Errorf("metadata missing %q", metadataItemsKey)
	}

	var s CheckoutSnapshot
	if err := json.Unmarshal([]byte(itemsJSON), &s.Items); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot items: %w", err)
	}

	if totalsJSON, ok := md[metadataTotalsKey]; ok {
		var totals snapshotTotals
		if err := json.Unmarshal([]byte(totalsJSON), &totals); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot totals: %w", err)
		}
		s.Subtotal = totals.Subtotal
		s.Tax = totals.Tax
		s.Shipping = totals.Shipping
		s.Total = totals.Total
	}

	if shippingJSON, ok := md[metadataShippingKey]; ok {
		if err := json.Unmarshal([]byte(shippingJSON), &s.ShippingAddress); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot shipping: %w", err)
		}
	}
	s.Email = md[metadataEmailKey]
	if s.Email == "" {
		s.Email = s.ShippingAddress.Email
	}

	return &s, nil
}
