// Package repository provides the corpus sources the search engine reads from.
package repository

import (
	"context"

	"delivery_admin_backend/internal/search/domain"
)

// ItemSource is the narrow read interface the search module depends on.
// Implementations return the whole corpus in a stable order.
type ItemSource interface {
	// Name identifies the source in logs.
	Name() string
	FetchAllItems(ctx context.Context) (Corpus, error)
}

// RecordSource yields flat records that still need conversion and
// validation before they can be searched.
type RecordSource interface {
	Name() string
	FetchRecords(ctx context.Context) ([]domain.Record, error)
}

// Corpus is a loaded, validated set of items in corpus order.
type Corpus struct {
	Items    []domain.Item
	Rejected []Rejection
}

// Rejection describes a record that was skipped while building a corpus.
type Rejection struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}
