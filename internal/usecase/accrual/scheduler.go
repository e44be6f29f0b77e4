package accrual

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler ticks the engine on a fixed interval. The engine's run lock is
// what keeps multiple replicas from accruing twice; the scheduler itself
// holds no state.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	log      *logrus.Logger
}

func NewScheduler(e *Engine, interval time.Duration, log *logrus.Logger) *Scheduler {
	return &Scheduler{engine: e, interval: interval, log: log}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.engine.Run(ctx); err != nil {
				if errors.Is(err, ErrRunInProgress) {
					s.log.WithFields(logrus.Fields{"module": "accrual"}).Info("skipping tick, run already in progress")
					continue
				}
				s.log.WithFields(logrus.Fields{"module": "accrual"}).Error("scheduled accrual run failed: " + err.Error())
			}
		}
	}
}
