package repository

import (
	"context"
	"fmt"
	"strings"

	"delivery_admin_backend/internal/search/domain"
	"delivery_admin_backend/platform/validator"
)

// BuildCorpus validates records and converts them into typed items, keeping
// their order. Invalid records and duplicate ids are rejected rather than
// failing the whole load; the first occurrence of an id wins.
func BuildCorpus(records []domain.Record, val *validator.Validator) Corpus {
	corpus := Corpus{
		Items:    make([]domain.Item, 0, len(records)),
		Rejected: []Rejection{},
	}
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			id = fmt.Sprintf("#%d", i)
		}

		if err := val.Struct(rec); err != nil {
			corpus.Rejected = append(corpus.Rejected, Rejection{ID: id, Reason: err.Error()})
			continue
		}
		if _, dup := seen[id]; dup {
			corpus.Rejected = append(corpus.Rejected, Rejection{ID: id, Reason: "duplicate id"})
			continue
		}

		item, err := rec.ToItem()
		if err != nil {
			corpus.Rejected = append(corpus.Rejected, Rejection{ID: id, Reason: err.Error()})
			continue
		}

		seen[id] = struct{}{}
		corpus.Items = append(corpus.Items, item)
	}

	return corpus
}

// recordItemSource adapts a RecordSource into an ItemSource.
type recordItemSource struct {
	src RecordSource
	val *validator.Validator
}

// FromRecords wraps a RecordSource so it can feed the search engine.
func FromRecords(src RecordSource, val *validator.Validator) ItemSource {
	return &recordItemSource{src: src, val: val}
}

func (s *recordItemSource) Name() string {
	return s.src.Name()
}

func (s *recordItemSource) FetchAllItems(ctx context.Context) (Corpus, error) {
	records, err := s.src.FetchRecords(ctx)
	if err != nil {
		return Corpus{}, fmt.Errorf("%s: fetch records: %w", s.src.Name(), err)
	}
	return BuildCorpus(records, s.val), nil
}
