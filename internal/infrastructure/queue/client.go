package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"oneshot-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Enqueuer is the part of *asynq.Client the services use.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RedisOpt builds the asynq connection from the shared Redis settings.
func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
}

func NewClient(opt asynq.RedisClientOpt) *asynq.Client {
	return asynq.NewClient(opt)
}

// EnqueueJSON marshals payload and enqueues it under taskType.
func EnqueueJSON(q Enqueuer, taskType string, payload interface{}, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	info, err := q.Enqueue(asynq.NewTask(taskType, body), opts...)
	if err != nil {
		log.Error().Err(err).Str("task", taskType).Msg("Failed to enqueue task")
		return nil, fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	log.Debug().Str("task", taskType).Str("id", info.ID).Str("queue", info.Queue).Msg("Task enqueued")
	return info, nil
}

// ========================================
// TASK OPTIONS
// ========================================

func GenerateProfileOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
	}
}

func ProcessPhotoOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(2 * time.Minute),
	}
}

func ContactOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(shared.QueueCritical),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
}
