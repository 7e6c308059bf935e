package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/shiftcall/internal/application/usecases"
	"github.com/example/shiftcall/internal/observability/metrics"
)

// Runner runs one announcement.
type Runner interface {
	Execute(ctx context.Context, channel string, opts usecases.RunOptions) usecases.Report
}

// LastRun is the outcome of the most recent scheduled announcement.
type LastRun struct {
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Outcome  string    `json:"outcome"`
	Records  int       `json:"records"`
	Error    string    `json:"error,omitempty"`
}

// Daily posts the roster once a day at Hour:Minute local time.
type Daily struct {
	Announce Runner
	Channel  string
	Hour     int
	Minute   int
	Log      *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	mu   sync.Mutex
	last *LastRun
}

// NextRun returns the first hour:minute strictly after now, in now's location.
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (d *Daily) Run(ctx context.Context) error {
	for {
		now := d.now()
		next := NextRun(now, d.Hour, d.Minute)
		d.logger().Info("next announcement scheduled", zap.Time("at", next), zap.String("channel", d.Channel))

		t := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		d.RunOnce(ctx)
	}
}

// RunOnce runs one announcement, records its metrics and keeps it as the
// last run.
func (d *Daily) RunOnce(ctx context.Context) usecases.Report {
	started := d.now()
	rep := d.Announce.Execute(ctx, d.Channel, usecases.RunOptions{})
	finished := d.now()

	run := LastRun{
		Started:  started,
		Finished: finished,
		Outcome:  outcome(rep),
		Records:  rep.Records,
	}
	if rep.Err != nil {
		run.Error = rep.Err.Error()
	}
	metrics.ObserveRun(finished.Sub(started), run.Outcome, rep.Records, finished)

	fields := []zap.Field{
		zap.String("outcome", run.Outcome),
		zap.Int("records", rep.Records),
		zap.Duration("took", finished.Sub(started)),
	}
	if rep.Err != nil {
		d.logger().Error("scheduled announcement finished with errors", append(fields, zap.Error(rep.Err))...)
	} else {
		d.logger().Info("scheduled announcement finished", fields...)
	}

	d.mu.Lock()
	d.last = &run
	d.mu.Unlock()
	return rep
}

// Last returns the most recent run, if any.
func (d *Daily) Last() (LastRun, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return LastRun{}, false
	}
	return *d.last, true
}

func outcome(rep usecases.Report) string {
	switch {
	case rep.Err != nil:
		return metrics.OutcomeError
	case rep.Skipped:
		return metrics.OutcomeSkipped
	default:
		return metrics.OutcomePosted
	}
}

func (d *Daily) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Daily) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
