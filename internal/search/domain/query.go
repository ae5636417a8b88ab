package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Pagination defaults applied whenever page or pageSize is missing or malformed.
const (
	DefaultPage     = 1
	DefaultPageSize = 9
	MaxPageSize     = 100
)

// Query is a search request. Facet selections are kept as raw strings:
// values that name no known bucket simply match nothing.
type Query struct {
	Q        string
	Types    []string
	Statuses []string
	Zones    []string
	Page     int
	PageSize int
}

// Normalized returns a copy with pagination clamped into range.
func (q Query) Normalized() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Fingerprint is a stable digest of the normalized query. Facet selections
// are order-insensitive and de-duplicated since they are set-membership tests.
func (q Query) Fingerprint() string {
	n := q.Normalized()

	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(strconv.Quote(n.Q))
	writeSet(&b, "type", n.Types)
	writeSet(&b, "estado", n.Statuses)
	writeSet(&b, "zona", n.Zones)
	b.WriteString("&page=")
	b.WriteString(strconv.Itoa(n.Page))
	b.WriteString("&pageSize=")
	b.WriteString(strconv.Itoa(n.PageSize))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeSet(b *strings.Builder, name string, values []string) {
	set := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		set = append(set, v)
	}
	sort.Strings(set)

	b.WriteString("&")
	b.WriteString(name)
	b.WriteString("=")
	for i, v := range set {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.Quote(v))
	}
}

// FacetBucket is one selectable value of a facet.
type FacetBucket struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// Facets groups the buckets of every facet dimension.
type Facets struct {
	Type   []FacetBucket `json:"type"`
	Estado []FacetBucket `json:"estado"`
	Zona   []FacetBucket `json:"zona"`
}

// Result is the outcome of a search.
type Result struct {
	Total       int
	Page        int
	PageSize    int
	Items       []Item
	Facets      Facets
	Suggestions []string
}
