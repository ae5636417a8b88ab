package domain

import "testing"

func TestQueryNormalized(t *testing.T) {
	tests := []struct {
		name         string
		in           Query
		wantPage     int
		wantPageSize int
	}{
		{name: "defaults", in: Query{}, wantPage: DefaultPage, wantPageSize: DefaultPageSize},
		{name: "kept", in: Query{Page: 3, PageSize: 20}, wantPage: 3, wantPageSize: 20},
		{name: "negative", in: Query{Page: -1, PageSize: -9}, wantPage: DefaultPage, wantPageSize: DefaultPageSize},
		{name: "capped", in: Query{Page: 2, PageSize: 5000}, wantPage: 2, wantPageSize: MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			if got.Page != tt.wantPage || got.PageSize != tt.wantPageSize {
				t.Fatalf("expected %d/%d, got %d/%d", tt.wantPage, tt.wantPageSize, got.Page, got.PageSize)
			}
		})
	}
}

func TestQueryFingerprint(t *testing.T) {
	a := Query{Q: "maria", Types: []string{"order", "customer"}, Zones: []string{"Norte"}}
	b := Query{Q: "maria", Types: []string{"customer", "order", "order"}, Zones: []string{"Norte"}, Page: 1, PageSize: 9}

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("equivalent queries should share a fingerprint")
	}

	different := []Query{
		{Q: "Maria", Types: a.Types, Zones: a.Zones},
		{Q: "maria", Types: []string{"order"}, Zones: a.Zones},
		{Q: "maria", Types: a.Types, Statuses: []string{"Norte"}},
		{Q: "maria", Types: a.Types, Zones: a.Zones, Page: 2},
		{Q: "maria", Types: a.Types, Zones: a.Zones, PageSize: 10},
	}
	for i, q := range different {
		if q.Fingerprint() == a.Fingerprint() {
			t.Fatalf("query %d should not share a fingerprint: %+v", i, q)
		}
	}
}
