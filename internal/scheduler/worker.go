package scheduler

import (
	"context"
	"fmt"
	"time"

	"delivery_admin_backend/internal/search/repository"
	"delivery_admin_backend/platform/config"
	"delivery_admin_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// SnapshotPublisher writes a fresh corpus snapshot.
type SnapshotPublisher interface {
	Publish(ctx context.Context) (repository.SnapshotDocument, error)
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	publisher SnapshotPublisher
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, publisher SnapshotPublisher, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 2
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(publisher, log)
	w.server = server
	return w, nil
}

func newWorker(publisher SnapshotPublisher, log *logger.Logger) *Worker {
	w := &Worker{
		mux:       asynq.NewServeMux(),
		publisher: publisher,
		log:       log,
	}
	w.mux.HandleFunc(TaskSnapshotPublish, w.handleSnapshotPublish)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleSnapshotPublish(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSnapshotPublishPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	start := time.Now()
	doc, err := w.publisher.Publish(ctx)
	if err != nil {
		w.log.Error("snapshot publish failed", "reason", payload.Reason, "error", err)
		return err
	}

	w.log.Info("snapshot published",
		"version", doc.Version,
		"items", len(doc.Items),
		"reason", payload.Reason,
		"took_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// PeriodicScheduler enqueues snapshot publishes on a cron schedule.
type PeriodicScheduler struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodicScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*PeriodicScheduler, error) {
	cronspec := cfg.GetSnapshotPublishCron()
	if cronspec == "" {
		return nil, fmt.Errorf("snapshot publish schedule not configured")
	}

	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	task, err := NewSnapshotPublishTask(SnapshotPublishPayload{Reason: "schedule"})
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})
	entryID, err := scheduler.Register(cronspec, task, asynq.Queue(queueName(cfg)), asynq.MaxRetry(3))
	if err != nil {
		return nil, fmt.Errorf("register snapshot publish schedule %q: %w", cronspec, err)
	}
	log.Info("snapshot publish scheduled", "cron", cronspec, "entry_id", entryID)

	return &PeriodicScheduler{scheduler: scheduler, log: log}, nil
}

func (p *PeriodicScheduler) Run(ctx context.Context) {
	if err := p.scheduler.Start(); err != nil {
		p.log.Error("periodic scheduler failed to start", "error", err)
		return
	}
	<-ctx.Done()
	p.scheduler.Shutdown()
}
