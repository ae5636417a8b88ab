// Package snapshot keeps the immutable corpus snapshot the search service
// reads from and swaps it atomically on reload.
package snapshot

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"delivery_admin_backend/internal/search/engine"
	"delivery_admin_backend/internal/search/repository"
	"delivery_admin_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ErrNotLoaded is returned while no snapshot has been loaded yet.
var ErrNotLoaded = errors.New("corpus snapshot not loaded")

// Snapshot is one loaded corpus. It is never mutated after creation.
type Snapshot struct {
	Version  string
	Source   string
	LoadedAt time.Time
	Rejected []repository.Rejection

	engine *engine.Engine
}

// Engine returns the search engine over this snapshot's items.
func (s *Snapshot) Engine() *engine.Engine {
	return s.engine
}

// Len returns the number of items in the snapshot.
func (s *Snapshot) Len() int {
	return s.engine.Len()
}

// Holder owns the current snapshot.
type Holder struct {
	source  repository.ItemSource
	log     *logger.Logger
	current atomic.Pointer[Snapshot]
	group   singleflight.Group
	now     func() time.Time
}

// NewHolder creates an empty holder; call Reload to load the first snapshot.
func NewHolder(source repository.ItemSource, log *logger.Logger) *Holder {
	return &Holder{
		source: source,
		log:    log,
		now:    time.Now,
	}
}

// Current returns the loaded snapshot, or nil before the first load.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Ping reports readiness: an error until a snapshot is loaded.
func (h *Holder) Ping(_ context.Context) error {
	if h.Current() == nil {
		return ErrNotLoaded
	}
	return nil
}

// Reload fetches the corpus and swaps it in. Concurrent callers share one
// fetch. On failure the previous snapshot stays in place.
func (h *Holder) Reload(ctx context.Context) (*Snapshot, error) {
	ch := h.group.DoChan("reload", func() (interface{}, error) {
		return h.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (h *Holder) load(ctx context.Context) (*Snapshot, error) {
	start := h.now()

	corpus, err := h.source.FetchAllItems(ctx)
	if err != nil {
		h.log.Error("snapshot reload failed", "source", h.source.Name(), "error", err)
		return nil, err
	}

	snap := &Snapshot{
		Version:  uuid.NewString(),
		Source:   h.source.Name(),
		LoadedAt: h.now().UTC(),
		Rejected: corpus.Rejected,
		engine:   engine.New(corpus.Items),
	}
	h.current.Store(snap)

	for _, r := range corpus.Rejected {
		h.log.Warn("corpus record rejected", "id", r.ID, "reason", r.Reason)
	}
	h.log.SnapshotLoaded(snap.Source, snap.Version, snap.Len(), len(snap.Rejected), h.now().Sub(start))

	return snap, nil
}

// Run reloads the snapshot every interval until ctx is done. A non-positive
// interval disables periodic reloads and Run just waits for ctx.
func (h *Holder) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// failures are logged in load and the previous snapshot is kept
			_, _ = h.Reload(ctx)
		}
	}
}
