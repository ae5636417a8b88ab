package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"delivery_admin_backend/internal/search/domain"
	"delivery_admin_backend/internal/search/repository"
	"delivery_admin_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type schedulerSettings struct {
	redisURL string
	queue    string
}

func (s schedulerSettings) GetRedisURL() string            { return s.redisURL }
func (s schedulerSettings) GetRedisTLSInsecure() bool      { return false }
func (s schedulerSettings) GetAsynqQueueName() string      { return s.queue }
func (s schedulerSettings) GetAsynqConcurrency() int       { return 1 }
func (s schedulerSettings) GetSnapshotPublishCron() string { return "@every 5m" }

func TestSnapshotPublishPayload_RoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)
	task, err := NewSnapshotPublishTask(SnapshotPublishPayload{Reason: "manual", RequestedAt: at})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskSnapshotPublish {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	payload, err := ParseSnapshotPublishPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Reason != "manual" || !payload.RequestedAt.Equal(at) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestPublishTaskID_SharedWithinWindow(t *testing.T) {
	base := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)

	if publishTaskID(base) != publishTaskID(base.Add(publishDedupWindow-time.Second)) {
		t.Fatal("requests in one window should share a task id")
	}
	if publishTaskID(base) == publishTaskID(base.Add(publishDedupWindow)) {
		t.Fatal("requests in different windows should not share a task id")
	}
}

func TestQueueName(t *testing.T) {
	if got := queueName(schedulerSettings{}); got != "default" {
		t.Fatalf("expected default queue, got %q", got)
	}
	if got := queueName(schedulerSettings{queue: "search"}); got != "search" {
		t.Fatalf("unexpected queue %q", got)
	}
}

func TestClient_EnqueueSnapshotPublishDeduplicates(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(schedulerSettings{redisURL: "redis://" + mr.Addr(), queue: "search"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	fixed := time.Date(2024, 5, 14, 10, 0, 5, 0, time.UTC)
	client.now = func() time.Time { return fixed }

	firstID, queue, err := client.EnqueueSnapshotPublish(context.Background(), "manual")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if queue != "search" || firstID != publishTaskID(fixed) {
		t.Fatalf("unexpected task %q on %q", firstID, queue)
	}

	secondID, _, err := client.EnqueueSnapshotPublish(context.Background(), "manual")
	if err != nil {
		t.Fatalf("duplicate enqueue should not fail: %v", err)
	}
	if secondID != firstID {
		t.Fatalf("expected shared task id, got %q and %q", firstID, secondID)
	}
}

func TestNewClient_RequiresRedis(t *testing.T) {
	if _, err := NewClient(schedulerSettings{}); err == nil {
		t.Fatal("expected error without redis url")
	}

	var nilClient *Client
	if _, _, err := nilClient.EnqueueSnapshotPublish(context.Background(), "manual"); err == nil {
		t.Fatal("expected error from nil client")
	}
	if err := nilClient.Close(); err != nil {
		t.Fatalf("closing a nil client should be a no-op, got %v", err)
	}
}

type fakePublisher struct {
	calls int
	err   error
}

func (f *fakePublisher) Publish(context.Context) (repository.SnapshotDocument, error) {
	f.calls++
	if f.err != nil {
		return repository.SnapshotDocument{}, f.err
	}
	return repository.SnapshotDocument{Version: "v1", Items: []domain.Record{{ID: "ord-1"}}}, nil
}

func TestWorker_HandleSnapshotPublish(t *testing.T) {
	pub := &fakePublisher{}
	w := newWorker(pub, logger.Nop())

	task, err := NewSnapshotPublishTask(SnapshotPublishPayload{Reason: "schedule"})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := w.mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.calls != 1 {
		t.Fatalf("expected one publish, got %d", pub.calls)
	}

	pub.err = errors.New("minio down")
	if err := w.mux.ProcessTask(context.Background(), task); !errors.Is(err, pub.err) {
		t.Fatalf("expected publish error to be returned for retry, got %v", err)
	}
}

func TestWorker_BadPayloadSkipsRetry(t *testing.T) {
	pub := &fakePublisher{}
	w := newWorker(pub, logger.Nop())

	err := w.mux.ProcessTask(context.Background(), asynq.NewTask(TaskSnapshotPublish, []byte("{not json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if pub.calls != 0 {
		t.Fatalf("publisher should not run for a bad payload, got %d calls", pub.calls)
	}
}

func TestWorker_RunWithoutServerReturns(t *testing.T) {
	w := newWorker(&fakePublisher{}, logger.Nop())
	w.Run(context.Background())
}
