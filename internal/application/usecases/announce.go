package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/shiftcall/internal/domain/announcement"
	"github.com/example/shiftcall/internal/domain/shift"
	"github.com/example/shiftcall/internal/infrastructure/jolt"
	"github.com/example/shiftcall/internal/internaltypes"
)

// Fetcher returns the raw body served at a URL by an authenticated session.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Sink delivers a rendered announcement.
type Sink interface {
	Resolve(ctx context.Context, channel string) (string, error)
	Post(ctx context.Context, channelID, text string) error
}

// Ledger remembers which days were announced. Optional.
type Ledger interface {
	Posted(ctx context.Context, day time.Time, channel string) (bool, error)
	Record(ctx context.Context, a announcement.Announcement) error
}

type RunOptions struct {
	// DryRun renders the message without posting or touching the ledger.
	DryRun bool
	// Force posts even if the ledger shows the day was already announced.
	Force bool
}

// Report is everything a run produced. Err accumulates every stage failure;
// Message is always rendered, even from an empty schedule.
type Report struct {
	Day      time.Time
	URL      string
	Records  int
	Schedule shift.DaySchedule
	Message  string
	Posted   bool
	Skipped  bool
	Err      error
}

// Announce fetches the day's roster, consolidates it and posts the result.
type Announce struct {
	Fetcher Fetcher
	Sink    Sink
	Ledger  Ledger
	Query   jolt.Query
	Options shift.Options
	Now     func() time.Time
	Log     *zap.Logger
}

func (u Announce) Execute(ctx context.Context, channel string, opts RunOptions) Report {
	log := u.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now()
	if u.Now != nil {
		now = u.Now()
	}

	day, _ := jolt.DayWindow(now)
	rep := Report{Day: day, URL: u.Query.URL(now)}
	var errs []error

	records, err := u.fetchRecords(ctx, rep.URL)
	if err != nil {
		log.Error("roster fetch failed, announcing an empty schedule", zap.Error(err))
		errs = append(errs, err)
		records = nil
	}
	rep.Records = len(records)

	rep.Schedule, err = shift.Consolidate(records, u.Options)
	if err != nil {
		log.Error("roster out of order, announcing an empty schedule", zap.Error(err))
		errs = append(errs, err)
		rep.Records = 0
	}
	rep.Message = shift.Format(rep.Schedule)
	log.Info("schedule consolidated",
		zap.Time("day", day),
		zap.Int("records", rep.Records),
		zap.Int("people", rep.Schedule.PeopleCount()))

	if opts.DryRun {
		rep.Err = errors.Join(errs...)
		return rep
	}

	if u.Ledger != nil && !opts.Force {
		posted, err := u.Ledger.Posted(ctx, day, channel)
		switch {
		case err != nil:
			log.Warn("ledger lookup failed, posting anyway", zap.Error(err))
		case posted:
			log.Info("day already announced, skipping", zap.String("channel", channel), zap.Time("day", day))
			rep.Skipped = true
			rep.Err = errors.Join(errs...)
			return rep
		}
	}

	if err := u.post(ctx, channel, rep.Message); err != nil {
		log.Error("announcement not delivered", zap.String("channel", channel), zap.Error(err))
		errs = append(errs, err)
	} else {
		rep.Posted = true
	}
	rep.Err = errors.Join(errs...)

	if u.Ledger != nil {
		entry := announcement.Announcement{
			Day:         day,
			Channel:     channel,
			PostedAt:    time.Now(),
			ShiftCount:  rep.Records,
			PeopleCount: rep.Schedule.PeopleCount(),
		}
		if rep.Err != nil {
			entry.Error = rep.Err.Error()
		}
		if err := u.Ledger.Record(ctx, entry); err != nil {
			log.Warn("ledger write failed", zap.Error(err))
		}
	}
	return rep
}

func (u Announce) fetchRecords(ctx context.Context, url string) ([]shift.Record, error) {
	if u.Fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", internaltypes.ErrTransport)
	}
	body, err := u.Fetcher.Fetch(ctx, url)
	if err != nil {
		if !errors.Is(err, internaltypes.ErrTransport) && !errors.Is(err, internaltypes.ErrTransportTimeout) {
			err = fmt.Errorf("%w: %v", internaltypes.ErrTransport, err)
		}
		return nil, err
	}
	return jolt.Parse(body)
}

func (u Announce) post(ctx context.Context, channel, text string) error {
	if u.Sink == nil {
		return fmt.Errorf("%w: no sink configured", internaltypes.ErrSink)
	}
	id, err := u.Sink.Resolve(ctx, channel)
	if err != nil {
		return err
	}
	return u.Sink.Post(ctx, id, text)
}
