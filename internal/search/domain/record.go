package domain

import (
	"fmt"
	"strings"
	"time"

	"delivery_admin_backend/platform/phone"
	"delivery_admin_backend/platform/sanitize"
)

// Record is the flat shape items take in seed files, the database and
// published snapshots. Variant fields that do not apply are left empty.
type Record struct {
	ID        string    `json:"id" yaml:"id" validate:"nonblank,max=128"`
	Type      string    `json:"type" yaml:"type" validate:"oneof=order customer store courier invoice"`
	Title     string    `json:"title" yaml:"title" validate:"nonblank,max=512"`
	Subtitle  string    `json:"subtitle,omitempty" yaml:"subtitle,omitempty" validate:"max=512"`
	Highlight string    `json:"highlight,omitempty" yaml:"highlight,omitempty" validate:"max=1024"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty" validate:"dive,nonblank"`

	Status   string   `json:"status,omitempty" yaml:"status,omitempty"`
	Total    *float64 `json:"total,omitempty" yaml:"total,omitempty"`
	Amount   *float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	Online   *bool    `json:"online,omitempty" yaml:"online,omitempty"`
	Zones    []string `json:"zones,omitempty" yaml:"zones,omitempty" validate:"dive,nonblank"`
	Email    string   `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Phone    string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// ToItem converts the record into its typed variant. Display text is
// stripped of markup, status values are checked against the variant's
// vocabulary and customer phones are normalized to E.164.
func (r Record) ToItem() (Item, error) {
	kind, ok := ParseKind(r.Type)
	if !ok {
		return nil, fmt.Errorf("unknown item type %q", r.Type)
	}

	base := Base{
		ID:        strings.TrimSpace(r.ID),
		Type:      kind,
		Title:     sanitize.Text(r.Title),
		Subtitle:  sanitize.Text(r.Subtitle),
		Highlight: sanitize.Text(r.Highlight),
		UpdatedAt: r.UpdatedAt.UTC(),
		Tags:      sanitize.Labels(r.Tags),
	}
	if base.Title == "" {
		return nil, fmt.Errorf("%s %s: empty title", kind, base.ID)
	}

	switch kind {
	case KindOrder:
		status := OrderStatus(r.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("order %s: unknown status %q", base.ID, r.Status)
		}
		return &Order{Base: base, Status: status, Total: deref(r.Total)}, nil
	case KindInvoice:
		status := InvoiceStatus(r.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("invoice %s: unknown status %q", base.ID, r.Status)
		}
		return &Invoice{Base: base, Status: status, Amount: deref(r.Amount)}, nil
	case KindCourier:
		zones := sanitize.Labels(r.Zones)
		online := false
		if r.Online != nil {
			online = *r.Online
		}
		return &Courier{Base: base, Online: online, Zones: zones}, nil
	case KindCustomer:
		return &Customer{Base: base, Email: r.Email, Phone: phone.NormalizeE164(r.Phone)}, nil
	case KindStore:
		return &Store{Base: base, Category: r.Category}, nil
	}

	return nil, fmt.Errorf("unhandled item type %q", kind)
}

// RecordOf flattens an item back into a Record.
func RecordOf(item Item) Record {
	meta := item.Meta()
	rec := Record{
		ID:        meta.ID,
		Type:      string(meta.Type),
		Title:     meta.Title,
		Subtitle:  meta.Subtitle,
		Highlight: meta.Highlight,
		UpdatedAt: meta.UpdatedAt,
		Tags:      meta.Tags,
	}

	switch v := item.(type) {
	case *Order:
		rec.Status = string(v.Status)
		rec.Total = &v.Total
	case *Invoice:
		rec.Status = string(v.Status)
		rec.Amount = &v.Amount
	case *Courier:
		rec.Online = &v.Online
		rec.Zones = v.Zones
	case *Customer:
		rec.Email = v.Email
		rec.Phone = v.Phone
	case *Store:
		rec.Category = v.Category
	}

	return rec
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
