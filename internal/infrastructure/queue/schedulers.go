package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"fitstudio-backend/internal/shared"
	"fitstudio-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs wires every recurring job into the scheduler.
func (s *Scheduler) RegisterJobs() error {
	return s.registerRedemptionReportJob()
}

// ================================================
// JOB: Redemption report export (daily at 2 AM UTC)
// ================================================
// Low traffic hour, and the front desk wants yesterday's numbers
// ready before opening.
func (s *Scheduler) registerRedemptionReportJob() error {
	task := asynq.NewTask(shared.TypeExportRedemptionReport, nil)

	_, err := s.scheduler.Register(
		"0 2 * * *",
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register redemption report job", err)
		return err
	}

	logger.Info("Registered redemption report export: daily at 2 AM UTC", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
