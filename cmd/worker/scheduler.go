package main

import (
	"oneshot-backend/internal/infrastructure/queue"
	"oneshot-backend/pkg/container"

	"github.com/rs/zerolog/log"
)

// asynqScheduler wraps queue.Scheduler with additional functionality
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler registers the periodic jobs and starts the scheduler
func setupScheduler(c *container.Container) *asynqScheduler {
	redis := c.Config.Redis
	scheduler := queue.NewScheduler(queue.RedisOpt(redis.Host, redis.Password, redis.DB), c.Config.Worker)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Failed to register")
	}

	go func() {
		log.Info().Str("sweep_cron", c.Config.Worker.SweepCronSpec).Msg("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
