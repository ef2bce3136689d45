// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"academyhub/internal/logger"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const retakeJobTimeout = time.Minute

// RetakeMarker flags leads whose diagnostic is old enough to retake
type RetakeMarker interface {
	MarkRetakesDue(ctx context.Context, age time.Duration) (int64, error)
}

// Scheduler wraps a cron runner
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

func NewScheduler(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.With("component", "jobs"),
	}
}

// AddRetakeJob schedules the retake sweep on a standard 5-field cron expression
func (s *Scheduler) AddRetakeJob(spec string, marker RetakeMarker, age time.Duration) error {
	if _, err := s.cron.AddFunc(spec, RetakeJob(marker, age, s.log)); err != nil {
		return fmt.Errorf("schedule retake job %q: %w", spec, err)
	}
	s.log.Info("retake job scheduled", "cron", spec, "age", age.String())
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("jobs still running at shutdown")
	}
}

// RetakeJob returns the function run on every tick
func RetakeJob(marker RetakeMarker, age time.Duration, log *logger.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), retakeJobTimeout)
		defer cancel()

		n, err := marker.MarkRetakesDue(ctx, age)
		if err != nil {
			log.Error("retake sweep failed", "error", err)
			return
		}
		if n > 0 {
			log.Info("leads due for a retake", "count", n)
		}
	}
}
