package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strconv"
	"time"

	"delivery_admin_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// publishDedupWindow collapses publish requests queued in quick succession.
const publishDedupWindow = 30 * time.Second

type Client struct {
	client *asynq.Client
	queue  string
	now    func() time.Time
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
		now:    time.Now,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueSnapshotPublish queues a publish of the corpus snapshot. Requests
// landing in the same dedup window share one task id, so the second one
// reuses the task already queued.
func (c *Client) EnqueueSnapshotPublish(ctx context.Context, reason string) (string, string, error) {
	if c == nil || c.client == nil {
		return "", "", fmt.Errorf("scheduler client not configured")
	}

	now := c.now().UTC()
	task, err := NewSnapshotPublishTask(SnapshotPublishPayload{Reason: reason, RequestedAt: now})
	if err != nil {
		return "", "", err
	}

	taskID := publishTaskID(now)
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.TaskID(taskID),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return taskID, c.queue, nil
	}
	if err != nil {
		return "", "", err
	}
	return info.ID, info.Queue, nil
}

func publishTaskID(now time.Time) string {
	window := now.Truncate(publishDedupWindow).Unix()
	return "snapshot-publish-" + strconv.FormatInt(window, 10)
}

func queueName(cfg config.SchedulerConfig) string {
	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	return queue
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
