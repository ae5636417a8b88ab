// Package domain holds the searchable item model shared by the search
// engine, its corpus sources and the HTTP layer.
package domain

import "time"

// Kind discriminates the item variants.
type Kind string

const (
	KindOrder    Kind = "order"
	KindCustomer Kind = "customer"
	KindStore    Kind = "store"
	KindCourier  Kind = "courier"
	KindInvoice  Kind = "invoice"
)

// Kinds lists every variant in facet and suggestion order.
var Kinds = []Kind{KindOrder, KindCustomer, KindStore, KindCourier, KindInvoice}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Label returns the display label used in facet buckets.
func (k Kind) Label() string {
	switch k {
	case KindOrder:
		return "Orders"
	case KindCustomer:
		return "Customers"
	case KindStore:
		return "Stores"
	case KindCourier:
		return "Couriers"
	case KindInvoice:
		return "Invoices"
	default:
		return string(k)
	}
}

// Base carries the attributes every variant has.
type Base struct {
	ID        string    `json:"id"`
	Type      Kind      `json:"type"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	Highlight string    `json:"highlight,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tags      []string  `json:"tags"`
}

// Item is a searchable record. The concrete type is one of *Order,
// *Customer, *Store, *Courier or *Invoice.
type Item interface {
	Meta() Base
	isItem()
}

// Order is a delivery order.
type Order struct {
	Base
	Status OrderStatus `json:"status"`
	Total  float64     `json:"total"`
}

// Customer is a platform customer.
type Customer struct {
	Base
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Store is a merchant location orders are picked up from.
type Store struct {
	Base
	Category string `json:"category,omitempty"`
}

// Courier is a driver. Zones are the delivery zones the courier covers.
type Courier struct {
	Base
	Online bool     `json:"online"`
	Zones  []string `json:"zones"`
}

// Invoice is a billing document.
type Invoice struct {
	Base
	Status InvoiceStatus `json:"status"`
	Amount float64       `json:"amount"`
}

func (o *Order) Meta() Base    { return o.Base }
func (c *Customer) Meta() Base { return c.Base }
func (s *Store) Meta() Base    { return s.Base }
func (c *Courier) Meta() Base  { return c.Base }
func (i *Invoice) Meta() Base  { return i.Base }

func (*Order) isItem()    {}
func (*Customer) isItem() {}
func (*Store) isItem()    {}
func (*Courier) isItem()  {}
func (*Invoice) isItem()  {}

// StatusOf returns the status of status-bearing variants (orders and
// invoices). ok is false for every other variant.
func StatusOf(item Item) (status string, ok bool) {
	switch v := item.(type) {
	case *Order:
		return string(v.Status), true
	case *Invoice:
		return string(v.Status), true
	case *Customer, *Store, *Courier:
		return "", false
	default:
		return "", false
	}
}

// ZonesOf returns the zones of zone-bearing variants (couriers). ok is false
// for every other variant.
func ZonesOf(item Item) (zones []string, ok bool) {
	switch v := item.(type) {
	case *Courier:
		return v.Zones, true
	case *Order, *Customer, *Store, *Invoice:
		return nil, false
	default:
		return nil, false
	}
}
