/*
scheduler.go - Automated monthly statement runs

PURPOSE:
  Once a month, computes the previous month's statement for every person and
  stores it as a run, so the runs list fills itself without anyone opening the
  statement endpoint.

DESIGN:
  - robfig/cron drives the schedule (default "0 3 1 * *": 03:00 on the 1st)
  - Each person is processed independently; one failure does not stop the rest
  - RunOnce is exposed for tests and manual triggering

USAGE:
  scheduler := NewStatementScheduler(handler, "0 3 1 * *")
  if err := scheduler.Start(); err != nil { ... }
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunStatement (shared with GET /statement)
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/warp/shift-payroll/generic"
)

// StatementScheduler runs monthly statements on a cron schedule.
type StatementScheduler struct {
	Handler  *Handler
	Schedule string
	Timeout  time.Duration

	cron    *cron.Cron
	mu      sync.Mutex
	started bool
}

// NewStatementScheduler creates a scheduler. An empty schedule disables it.
func NewStatementScheduler(handler *Handler, schedule string) *StatementScheduler {
	return &StatementScheduler{
		Handler:  handler,
		Schedule: schedule,
		Timeout:  5 * time.Minute,
		cron:     cron.New(cron.WithLocation(time.Local)),
	}
}

// Start registers the job and starts the cron engine.
func (s *StatementScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Schedule == "" {
		s.Handler.Log.Info("statement scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
		defer cancel()
		s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("invalid statement schedule %q: %w", s.Schedule, err)
	}

	s.cron.Start()
	s.started = true
	s.Handler.Log.WithField("schedule", s.Schedule).Info("statement scheduler started")
	return nil
}

// Stop waits for a running job to finish.
func (s *StatementScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.started = false
	s.Handler.Log.Info("statement scheduler stopped")
}

// RunOnce computes the previous month's statement for every person and
// returns how many runs were stored.
func (s *StatementScheduler) RunOnce(ctx context.Context) int {
	prev := generic.MonthOf(s.Handler.Calculator.Clock()).PreviousMonth()
	year, month := prev.Start.Year(), prev.Start.Month()

	log := s.Handler.Log.WithFields(logrus.Fields{"year": year, "month": int(month)})

	people, err := s.Handler.Store.ListPeople(ctx)
	if err != nil {
		s.Handler.Metrics.ErrorsCount.WithLabelValues("scheduler").Inc()
		log.WithError(err).Error("failed to list people")
		return 0
	}

	saved := 0
	for _, p := range people {
		if _, _, err := s.Handler.RunStatement(ctx, p.ID, year, month); err != nil {
			s.Handler.Metrics.ErrorsCount.WithLabelValues("scheduler").Inc()
			log.WithError(err).WithField("person_id", p.ID).Error("statement run failed")
			continue
		}
		saved++
	}

	log.WithFields(logrus.Fields{"people": len(people), "saved": saved}).Info("statement runs completed")
	return saved
}
