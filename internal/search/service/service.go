package service

import (
	"context"
	"encoding/json"

	"delivery_admin_backend/internal/search/cache"
	"delivery_admin_backend/internal/search/domain"
	"delivery_admin_backend/internal/search/snapshot"
	"delivery_admin_backend/internal/search/transport"
	"delivery_admin_backend/platform/apperr"
	"delivery_admin_backend/platform/logger"
)

const msgCorpusNotReady = "search corpus not ready"

// Snapshots is the snapshot holder seen by the service.
type Snapshots interface {
	Current() *snapshot.Snapshot
	Reload(ctx context.Context) (*snapshot.Snapshot, error)
}

// SnapshotPublisher queues a corpus snapshot publish job.
type SnapshotPublisher interface {
	EnqueueSnapshotPublish(ctx context.Context, reason string) (taskID string, queue string, err error)
}

type Service struct {
	snapshots Snapshots
	cache     cache.Cache
	publisher SnapshotPublisher
	log       *logger.Logger
}

func New(snapshots Snapshots, c cache.Cache, log *logger.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{snapshots: snapshots, cache: c, log: log}
}

// SetSnapshotPublisher enables Publish. Without one Publish reports unavailable.
func (s *Service) SetSnapshotPublisher(p SnapshotPublisher) {
	s.publisher = p
}

// SearchJSON returns the encoded response of q, served from the response
// cache when possible. Cache failures are logged and bypassed.
func (s *Service) SearchJSON(ctx context.Context, q domain.Query) ([]byte, error) {
	snap := s.snapshots.Current()
	if snap == nil {
		return nil, apperr.Unavailable(msgCorpusNotReady).WithOp("search.SearchJSON")
	}

	log := s.log.WithContext(ctx)
	key := cache.Key(snap.Version, q)

	body, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		log.CacheError("get", err)
	}
	if hit {
		return body, nil
	}

	resp := transport.NewSearchResponse(snap.Engine().Search(q))
	body, err = json.Marshal(resp)
	if err != nil {
		appErr := apperr.Internal("failed to encode search response").WithOp("search.SearchJSON")
		appErr.Err = err
		return nil, appErr
	}

	if err := s.cache.Set(ctx, key, body); err != nil {
		log.CacheError("set", err)
	}

	return body, nil
}

// Reload swaps in a freshly loaded snapshot.
func (s *Service) Reload(ctx context.Context) (*transport.ReloadResponse, error) {
	snap, err := s.snapshots.Reload(ctx)
	if err != nil {
		appErr := apperr.Unavailable("corpus reload failed").WithOp("search.Reload").WithDetails(err.Error())
		appErr.Err = err
		return nil, appErr
	}

	rejected := make([]transport.RejectedRecord, len(snap.Rejected))
	for i, r := range snap.Rejected {
		rejected[i] = transport.RejectedRecord{ID: r.ID, Reason: r.Reason}
	}

	return &transport.ReloadResponse{
		Version:  snap.Version,
		Source:   snap.Source,
		Items:    snap.Len(),
		Rejected: rejected,
		LoadedAt: snap.LoadedAt,
	}, nil
}

// Publish queues a snapshot publish job.
func (s *Service) Publish(ctx context.Context, reason string) (*transport.PublishResponse, error) {
	if s.publisher == nil {
		return nil, apperr.Unavailable("snapshot publishing not configured").WithOp("search.Publish")
	}

	taskID, queue, err := s.publisher.EnqueueSnapshotPublish(ctx, reason)
	if err != nil {
		appErr := apperr.Internal("failed to queue snapshot publish").WithOp("search.Publish").WithDetails(err.Error())
		appErr.Err = err
		return nil, appErr
	}

	s.log.WithContext(ctx).Info("snapshot publish queued", "task_id", taskID, "queue", queue, "reason", reason)
	return &transport.PublishResponse{TaskID: taskID, Queue: queue}, nil
}
