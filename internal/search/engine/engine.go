// Package engine implements the faceted search over an in-memory corpus.
//
// An Engine is built once per corpus snapshot and never mutated afterwards,
// so Search is safe for concurrent use. Results keep corpus order and facet
// counts are computed against the whole corpus, each restricted only by its
// own dimension: selecting a filter narrows the items but never shrinks the
// sibling buckets.
package engine

import (
	"strings"

	"delivery_admin_backend/internal/search/domain"

	"golang.org/x/text/cases"
)

type entry struct {
	item      domain.Item
	kind      domain.Kind
	title     string
	subtitle  string
	highlight string
	status    string
	hasStatus bool
	zones     []string
	hasZones  bool
}

// Engine answers queries against one immutable corpus.
type Engine struct {
	entries      []entry
	typeCounts   map[domain.Kind]int
	statusCounts map[string]int
	statusKeys   []string
	zoneCounts   map[string]int
	zoneKeys     []string
}

// New indexes items. The slice is copied; callers may reuse it.
func New(items []domain.Item) *Engine {
	fold := cases.Fold()

	e := &Engine{
		entries:      make([]entry, 0, len(items)),
		typeCounts:   make(map[domain.Kind]int, len(domain.Kinds)),
		statusCounts: make(map[string]int),
		zoneCounts:   make(map[string]int),
		statusKeys:   domain.StatusKeys(),
	}

	for _, item := range items {
		meta := item.Meta()
		en := entry{
			item:      item,
			kind:      meta.Type,
			title:     fold.String(meta.Title),
			subtitle:  fold.String(meta.Subtitle),
			highlight: fold.String(meta.Highlight),
		}
		en.status, en.hasStatus = domain.StatusOf(item)
		en.zones, en.hasZones = domain.ZonesOf(item)

		e.typeCounts[en.kind]++
		if en.hasStatus {
			e.statusCounts[en.status]++
		}
		if en.hasZones {
			seen := make(map[string]struct{}, len(en.zones))
			for _, z := range en.zones {
				if _, dup := seen[z]; dup {
					continue
				}
				seen[z] = struct{}{}
				if _, known := e.zoneCounts[z]; !known {
					e.zoneKeys = append(e.zoneKeys, z)
				}
				e.zoneCounts[z]++
			}
		}

		e.entries = append(e.entries, en)
	}

	return e
}

// Len returns the corpus size.
func (e *Engine) Len() int {
	return len(e.entries)
}

// Search runs q against the corpus. It never fails: malformed pagination is
// clamped, and unknown facet values simply select nothing.
func (e *Engine) Search(q domain.Query) domain.Result {
	q = q.Normalized()

	needle := ""
	if q.Q != "" {
		needle = cases.Fold().String(q.Q)
	}
	types := toSet(q.Types)
	statuses := toSet(q.Statuses)
	zones := toSet(q.Zones)

	matched := make([]domain.Item, 0, len(e.entries))
	for i := range e.entries {
		en := &e.entries[i]
		if !en.matchesText(needle) {
			continue
		}
		if len(types) > 0 && !types.has(string(en.kind)) {
			continue
		}
		if len(statuses) > 0 && (!en.hasStatus || !statuses.has(en.status)) {
			continue
		}
		if len(zones) > 0 && (!en.hasZones || !zones.hasAny(en.zones)) {
			continue
		}
		matched = append(matched, en.item)
	}

	return domain.Result{
		Total:    len(matched),
		Page:     q.Page,
		PageSize: q.PageSize,
		Items:    paginate(matched, q.Page, q.PageSize),
		Facets: domain.Facets{
			Type:   e.typeBuckets(types),
			Estado: e.statusBuckets(statuses),
			Zona:   e.zoneBuckets(zones),
		},
		Suggestions: Suggest(q.Q),
	}
}

func (en *entry) matchesText(needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(en.title, needle) ||
		strings.Contains(en.subtitle, needle) ||
		strings.Contains(en.highlight, needle)
}

func paginate(items []domain.Item, page, pageSize int) []domain.Item {
	if len(items) == 0 || page < 1 || pageSize < 1 {
		return []domain.Item{}
	}
	// Compare before multiplying: (page-1)*pageSize overflows for huge pages.
	if page-1 > (len(items)-1)/pageSize {
		return []domain.Item{}
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	out := make([]domain.Item, end-start)
	copy(out, items[start:end])
	return out
}

func (e *Engine) typeBuckets(selected set) []domain.FacetBucket {
	buckets := make([]domain.FacetBucket, 0, len(domain.Kinds))
	for _, k := range domain.Kinds {
		buckets = append(buckets, domain.FacetBucket{
			Key:      string(k),
			Label:    k.Label(),
			Count:    e.typeCounts[k],
			Selected: selected.has(string(k)),
		})
	}
	return buckets
}

func (e *Engine) statusBuckets(selected set) []domain.FacetBucket {
	buckets := make([]domain.FacetBucket, 0, len(e.statusKeys))
	for _, key := range e.statusKeys {
		buckets = append(buckets, domain.FacetBucket{
			Key:      key,
			Label:    domain.StatusLabel(key),
			Count:    e.statusCounts[key],
			Selected: selected.has(key),
		})
	}
	return buckets
}

func (e *Engine) zoneBuckets(selected set) []domain.FacetBucket {
	buckets := make([]domain.FacetBucket, 0, len(e.zoneKeys))
	for _, key := range e.zoneKeys {
		buckets = append(buckets, domain.FacetBucket{
			Key:      key,
			Label:    key,
			Count:    e.zoneCounts[key],
			Selected: selected.has(key),
		})
	}
	return buckets
}

type set map[string]struct{}

func toSet(values []string) set {
	if len(values) == 0 {
		return nil
	}
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s set) hasAny(values []string) bool {
	for _, v := range values {
		if s.has(v) {
			return true
		}
	}
	return false
}
