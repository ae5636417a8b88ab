package engine

import "delivery_admin_backend/internal/search/domain"

// Suggest expands q with every entity keyword in fixed order. An empty q
// yields no suggestions.
func Suggest(q string) []string {
	if q == "" {
		return []string{}
	}
	out := make([]string, 0, len(domain.Kinds))
	for _, k := range domain.Kinds {
		out = append(out, q+" "+string(k))
	}
	return out
}
