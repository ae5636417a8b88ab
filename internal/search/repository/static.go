package repository

import (
	"context"
	"time"

	"delivery_admin_backend/internal/search/domain"
)

// StaticSource serves a fixed, in-process corpus.
type StaticSource struct {
	items []domain.Item
}

// NewStaticSource serves items as given.
func NewStaticSource(items []domain.Item) *StaticSource {
	return &StaticSource{items: items}
}

// NewReferenceSource serves ReferenceItems.
func NewReferenceSource() *StaticSource {
	return NewStaticSource(ReferenceItems())
}

func (s *StaticSource) Name() string {
	return "static"
}

func (s *StaticSource) FetchAllItems(_ context.Context) (Corpus, error) {
	items := make([]domain.Item, len(s.items))
	copy(items, s.items)
	return Corpus{Items: items, Rejected: []Rejection{}}, nil
}

// ReferenceItems returns the built-in demo corpus: one item per variant,
// in facet order.
func ReferenceItems() []domain.Item {
	at := func(value string) time.Time {
		t, _ := time.Parse(time.RFC3339, value)
		return t
	}

	return []domain.Item{
		&domain.Order{
			Base: domain.Base{
				ID:        "ord-1042",
				Type:      domain.KindOrder,
				Title:     "Order #1042",
				Subtitle:  "María González · 3 items",
				Highlight: "Deliver before 18:00",
				UpdatedAt: at("2024-05-14T16:20:00Z"),
				Tags:      []string{"express"},
			},
			Status: domain.OrderInTransit,
			Total:  45.9,
		},
		&domain.Customer{
			Base: domain.Base{
				ID:        "cus-2001",
				Type:      domain.KindCustomer,
				Title:     "María González",
				Subtitle:  "maria.gonzalez@example.com",
				UpdatedAt: at("2024-05-12T09:05:00Z"),
				Tags:      []string{"vip"},
			},
			Email: "maria.gonzalez@example.com",
			Phone: "+34612345678",
		},
		&domain.Store{
			Base: domain.Base{
				ID:        "sto-301",
				Type:      domain.KindStore,
				Title:     "Farmacia Central",
				Subtitle:  "Av. Libertador 1200",
				UpdatedAt: at("2024-05-10T11:00:00Z"),
				Tags:      []string{"pharmacy", "24h"},
			},
			Category: "pharmacy",
		},
		&domain.Courier{
			Base: domain.Base{
				ID:        "cou-77",
				Type:      domain.KindCourier,
				Title:     "Carlos Pérez",
				Subtitle:  "Motorbike · ABC-123",
				Highlight: "Online since 08:00",
				UpdatedAt: at("2024-05-14T08:00:00Z"),
				Tags:      []string{"motorbike"},
			},
			Online: true,
			Zones:  []string{"Norte", "Centro"},
		},
		&domain.Invoice{
			Base: domain.Base{
				ID:        "inv-5001",
				Type:      domain.KindInvoice,
				Title:     "Invoice INV-5001",
				Subtitle:  "Farmacia Central",
				UpdatedAt: at("2024-05-01T00:00:00Z"),
				Tags:      []string{"monthly"},
			},
			Status: domain.InvoiceUnpaid,
			Amount: 1250.5,
		},
	}
}
