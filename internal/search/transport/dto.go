package transport

import (
	"time"

	"delivery_admin_backend/internal/search/domain"
)

// SearchRequest holds the parsed query string of GET /search. It is filled
// field by field in handler.ParseSearchRequest rather than bound, so malformed
// pagination falls back to defaults instead of failing the request.
type SearchRequest struct {
	Query    string
	Types    []string
	Estados  []string
	Zonas    []string
	Page     int
	PageSize int
}

// ToQuery converts the request into an engine query.
func (r SearchRequest) ToQuery() domain.Query {
	return domain.Query{
		Q:        r.Query,
		Types:    r.Types,
		Statuses: r.Estados,
		Zones:    r.Zonas,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
}

// SearchResponse is the JSON body of a search.
type SearchResponse struct {
	Total       int           `json:"total"`
	Page        int           `json:"page"`
	PageSize    int           `json:"pageSize"`
	Items       []domain.Item `json:"items"`
	Facets      domain.Facets `json:"facets"`
	Suggestions []string      `json:"suggestions"`
}

// NewSearchResponse maps an engine result onto the wire shape.
func NewSearchResponse(r domain.Result) SearchResponse {
	return SearchResponse{
		Total:       r.Total,
		Page:        r.Page,
		PageSize:    r.PageSize,
		Items:       r.Items,
		Facets:      r.Facets,
		Suggestions: r.Suggestions,
	}
}

// ReloadResponse reports the snapshot installed by a reload.
type ReloadResponse struct {
	Version  string           `json:"version"`
	Source   string           `json:"source"`
	Items    int              `json:"items"`
	Rejected []RejectedRecord `json:"rejected"`
	LoadedAt time.Time        `json:"loadedAt"`
}

// RejectedRecord is a record skipped during a reload.
type RejectedRecord struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// PublishResponse acknowledges a queued snapshot publish.
type PublishResponse struct {
	TaskID string `json:"taskId"`
	Queue  string `json:"queue"`
}
