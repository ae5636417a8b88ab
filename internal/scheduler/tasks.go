package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskSnapshotPublish = "search.snapshot.publish"

type SnapshotPublishPayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewSnapshotPublishTask(payload SnapshotPublishPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSnapshotPublish, data), nil
}

func ParseSnapshotPublishPayload(task *asynq.Task) (SnapshotPublishPayload, error) {
	var payload SnapshotPublishPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SnapshotPublishPayload{}, err
	}
	return payload, nil
}
