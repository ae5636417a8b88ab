package domain

// OrderStatus is the delivery state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderInTransit OrderStatus = "in-transit"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceUnpaid InvoiceStatus = "unpaid"
)

// OrderStatuses lists the order states in facet order.
var OrderStatuses = []OrderStatus{OrderPending, OrderInTransit, OrderDelivered, OrderCancelled}

// InvoiceStatuses lists the invoice states in facet order.
var InvoiceStatuses = []InvoiceStatus{InvoicePaid, InvoiceUnpaid}

// StatusKeys lists every status bucket key: order states first, then
// invoice states.
func StatusKeys() []string {
	keys := make([]string, 0, len(OrderStatuses)+len(InvoiceStatuses))
	for _, s := range OrderStatuses {
		keys = append(keys, string(s))
	}
	for _, s := range InvoiceStatuses {
		keys = append(keys, string(s))
	}
	return keys
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	for _, known := range InvoiceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

var statusLabels = map[string]string{
	string(OrderPending):   "Pending",
	string(OrderInTransit): "In transit",
	string(OrderDelivered): "Delivered",
	string(OrderCancelled): "Cancelled",
	string(InvoicePaid):    "Paid",
	string(InvoiceUnpaid):  "Unpaid",
}

// StatusLabel returns the display label for a status key.
func StatusLabel(key string) string {
	if label, ok := statusLabels[key]; ok {
		return label
	}
	return key
}
