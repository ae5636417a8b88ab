package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"delivery_admin_backend/internal/search/domain"
	"delivery_admin_backend/internal/search/repository"
	"delivery_admin_backend/internal/search/snapshot"
	"delivery_admin_backend/internal/search/transport"
	"delivery_admin_backend/platform/apperr"
	"delivery_admin_backend/platform/logger"
)

type staticOrFailing struct {
	err error
}

func (s staticOrFailing) Name() string { return "test" }

func (s staticOrFailing) FetchAllItems(ctx context.Context) (repository.Corpus, error) {
	if s.err != nil {
		return repository.Corpus{}, s.err
	}
	return repository.NewReferenceSource().FetchAllItems(ctx)
}

func loadedHolder(t *testing.T) *snapshot.Holder {
	t.Helper()
	h := snapshot.NewHolder(staticOrFailing{}, logger.Nop())
	if _, err := h.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return h
}

type memoryCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	gets   int
	sets   int
	getErr error
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	body, ok := m.data[key]
	return body, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = body
	return nil
}

func TestSearchJSON_UnavailableBeforeFirstSnapshot(t *testing.T) {
	svc := New(snapshot.NewHolder(staticOrFailing{}, logger.Nop()), nil, logger.Nop())

	if _, err := svc.SearchJSON(context.Background(), domain.Query{}); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestSearchJSON_ReturnsResponse(t *testing.T) {
	svc := New(loadedHolder(t), nil, logger.Nop())

	body, err := svc.SearchJSON(context.Background(), domain.Query{Q: "maria"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Total       int      `json:"total"`
		Page        int      `json:"page"`
		PageSize    int      `json:"pageSize"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Suggestions) != 5 || resp.Page != 1 || resp.PageSize != 9 {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestSearchJSON_CachesEncodedResponse(t *testing.T) {
	c := newMemoryCache()
	svc := New(loadedHolder(t), c, logger.Nop())
	q := domain.Query{Types: []string{"courier"}, Zones: []string{"Norte"}}

	first, err := svc.SearchJSON(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.SearchJSON(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(first) != string(second) {
		t.Fatalf("cached body differs:\n%s\n%s", first, second)
	}
	if c.sets != 1 || c.gets != 2 {
		t.Fatalf("expected one set and two gets, got sets=%d gets=%d", c.sets, c.gets)
	}

	var resp struct {
		Total int `json:"total"`
		Items []struct {
			ID    string   `json:"id"`
			Type  string   `json:"type"`
			Zones []string `json:"zones"`
		} `json:"items"`
	}
	if err := json.Unmarshal(first, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].ID != "cou-77" || len(resp.Items[0].Zones) != 2 {
		t.Fatalf("unexpected body %s", first)
	}
}

func TestSearchJSON_BypassesFailingCache(t *testing.T) {
	c := newMemoryCache()
	c.getErr = errors.New("redis down")
	c.setErr = errors.New("redis down")
	svc := New(loadedHolder(t), c, logger.Nop())

	body, err := svc.SearchJSON(context.Background(), domain.Query{})
	if err != nil {
		t.Fatalf("cache failure should not fail the search: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("expected a body")
	}
}

func TestSearchJSON_ReloadChangesCacheKey(t *testing.T) {
	c := newMemoryCache()
	h := loadedHolder(t)
	svc := New(h, c, logger.Nop())

	if _, err := svc.SearchJSON(context.Background(), domain.Query{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, err := svc.SearchJSON(context.Background(), domain.Query{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(c.data) != 2 {
		t.Fatalf("expected one entry per snapshot, got %d", len(c.data))
	}
}

func TestReload(t *testing.T) {
	svc := New(loadedHolder(t), nil, logger.Nop())

	resp, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Items != 5 || resp.Source != "test" || resp.Version == "" || resp.Rejected == nil {
		t.Fatalf("unexpected reload response %+v", resp)
	}
}

func TestReload_FailureIsUnavailable(t *testing.T) {
	h := snapshot.NewHolder(staticOrFailing{err: errors.New("db down")}, logger.Nop())
	svc := New(h, nil, logger.Nop())

	_, err := svc.Reload(context.Background())
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

type fakePublisher struct {
	reason string
	err    error
}

func (f *fakePublisher) EnqueueSnapshotPublish(_ context.Context, reason string) (string, string, error) {
	f.reason = reason
	if f.err != nil {
		return "", "", f.err
	}
	return "task-1", "default", nil
}

func TestPublish(t *testing.T) {
	svc := New(loadedHolder(t), nil, logger.Nop())

	if _, err := svc.Publish(context.Background(), "manual"); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable without a publisher, got %v", err)
	}

	pub := &fakePublisher{}
	svc.SetSnapshotPublisher(pub)
	resp, err := svc.Publish(context.Background(), "manual")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *resp != (transport.PublishResponse{TaskID: "task-1", Queue: "default"}) || pub.reason != "manual" {
		t.Fatalf("unexpected response %+v reason %q", resp, pub.reason)
	}

	pub.err = errors.New("queue down")
	if _, err := svc.Publish(context.Background(), "manual"); !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
