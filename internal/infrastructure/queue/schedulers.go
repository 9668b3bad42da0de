package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"happy-thoughts/internal/config"
	thoughtJob "happy-thoughts/internal/domains/thought/job"
	"happy-thoughts/internal/shared"
	"happy-thoughts/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterJobs registers every periodic task
func (s *Scheduler) RegisterJobs() error {
	if err := s.registerBackfillTagsJob(); err != nil {
		return err
	}
	return nil
}

// ================================================
// Backfill thought tags (JOBS_BACKFILL_CRON, daily at 3 AM by default)
// ================================================
func (s *Scheduler) registerBackfillTagsJob() error {
	if s.jobConfig.BackfillCron == "" {
		logger.Info("Scheduled tag backfill disabled", map[string]interface{}{})
		return nil
	}

	task, err := thoughtJob.NewBackfillTask(thoughtJob.BackfillPayload{RequestedBy: "scheduler"})
	if err != nil {
		return err
	}

	entryID, err := s.scheduler.Register(
		s.jobConfig.BackfillCron,
		task,
		asynq.Queue(shared.QueueThought),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register BackfillTags job", err)
		return fmt.Errorf("register backfill job: %w", err)
	}

	logger.Info("Registered BackfillTags job", map[string]interface{}{
		"cron":     s.jobConfig.BackfillCron,
		"entry_id": entryID,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
