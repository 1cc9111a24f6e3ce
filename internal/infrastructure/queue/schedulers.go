package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"blog-backend/internal/shared"
	"blog-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	pruneCron string
}

func NewScheduler(redisOpt asynq.RedisConnOpt, pruneCron string) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		pruneCron: pruneCron,
	}
}

func (s *Scheduler) RegisterCleanupJobs() error {
	return s.registerPruneSessionsJob()
}

// ================================================
// JOB: Prune Session Indexes
// ================================================
// user_sessions sets outlive individual sessions; stale ids are harmless
// but grow without bound for users who never log out.
func (s *Scheduler) registerPruneSessionsJob() error {
	payload, err := json.Marshal(shared.PruneSessionsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypePruneSessions, payload)

	_, err = s.scheduler.Register(
		s.pruneCron,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register PruneSessions job", err)
		return err
	}

	logger.Info("Registered PruneSessions job", map[string]interface{}{"cron": s.pruneCron})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
