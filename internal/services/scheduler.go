package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"sitecms/internal/logger"
)

// Job — фоновая задача по расписанию.
type Job func(ctx context.Context) error

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

func NewScheduler(timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: timeout,
	}
}

// Add регистрирует задачу; паника внутри задачи логируется и не роняет процесс.
func (s *Scheduler) Add(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.Error("Паника в фоновой задаче", zap.String("job", name), zap.Any("panic", rec))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			logger.Log.Error("Фоновая задача завершилась с ошибкой", zap.String("job", name), zap.Error(err))
			return
		}
		logger.Log.Debug("Фоновая задача выполнена", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
	return err
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop ждёт завершения запущенных задач, но не дольше ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
