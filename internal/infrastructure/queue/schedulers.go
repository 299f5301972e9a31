package queue

import (
	"encoding/json"
	"time"

	"oneshot-backend/internal/config"
	"oneshot-backend/internal/shared"
	"oneshot-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.WorkerConfig
}

func NewScheduler(opt asynq.RedisClientOpt, cfg config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		opt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		cfg:       cfg,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerSweepBackupsJob()
}

// ================================================
// Sweep upload backups (daily, WORKER_SWEEP_CRON)
// ================================================
func (s *Scheduler) registerSweepBackupsJob() error {
	payload, err := json.Marshal(shared.SweepBackupsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepBackups, payload)

	_, err = s.scheduler.Register(
		s.cfg.SweepCronSpec,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepBackups job", err)
		return err
	}

	logger.Info("Registered SweepBackups", map[string]interface{}{"cron": s.cfg.SweepCronSpec})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
