package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/shiftcall/internal/application/usecases"
	"github.com/example/shiftcall/internal/domain/shift"
	"github.com/example/shiftcall/internal/infrastructure/jolt"
	"github.com/example/shiftcall/internal/infrastructure/postgres"
	"github.com/example/shiftcall/internal/infrastructure/slack"
)

const dayLayout = "2006-01-02"

// announcer assembles the live pipeline: browser session, Slack sink and,
// when DATABASE_URL is set, the announcement ledger.
func (a *app) announcer(ctx context.Context, groupByName bool) (usecases.Announce, func(), error) {
	cleanup := func() {}
	cfg := a.cfg

	sessionCfg := jolt.SessionConfig{
		BaseURL:     cfg.Jolt.BaseURL,
		Credentials: jolt.Credentials{Email: cfg.Jolt.Email, Password: cfg.Jolt.Password},
		WaitTimeout: cfg.Jolt.WaitTimeout,
		Headless:    cfg.Jolt.Headless,
	}
	hashKey, blockKey, ok, err := cfg.SessionKeys()
	if err != nil {
		return usecases.Announce{}, cleanup, err
	}
	if ok {
		sessionCfg.Jar = jolt.NewCookieJar(cfg.Session.CachePath, hashKey, blockKey, cfg.Session.MaxAge)
	}

	u := usecases.Announce{
		Fetcher: jolt.NewSession(sessionCfg, a.log.Named("jolt")),
		Query:   jolt.NewQuery(cfg.Jolt.BaseURL, cfg.Jolt.LocationID),
		Options: shift.Options{GroupByName: groupByName || cfg.Schedule.GroupByName},
		Log:     a.log,
	}
	if cfg.Slack.Token != "" {
		u.Sink = slack.New(cfg.Slack.Token, a.log.Named("slack"))
	}
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			a.log.Warn("announcement ledger unavailable, posting without dedupe", zap.Error(err))
		} else {
			u.Ledger = postgres.NewLedgerRepo(pool)
			cleanup = pool.Close
		}
	}
	return u, cleanup, nil
}

// parseDay turns an optional --at value into a time on that local day.
func parseDay(at string) (time.Time, error) {
	if at == "" {
		return time.Now(), nil
	}
	d, err := time.ParseInLocation(dayLayout, at, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q, want %s", at, dayLayout)
	}
	return d, nil
}
