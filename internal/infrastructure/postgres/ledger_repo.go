package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shiftcall/internal/domain/announcement"
)

const dayLayout = "2006-01-02"

// LedgerRepo records which days have already been announced where.
type LedgerRepo struct{ pool *pgxpool.Pool }

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo { return &LedgerRepo{pool: pool} }

// Open connects, pings and migrates.
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return pool, nil
}

// Posted reports whether a clean announcement exists for day and channel.
func (r *LedgerRepo) Posted(ctx context.Context, day time.Time, channel string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM announcements WHERE day=$1::date AND channel=$2 AND error='')`,
		day.Format(dayLayout), channel,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db: %w", err)
	}
	return ok, nil
}

func (r *LedgerRepo) Record(ctx context.Context, a announcement.Announcement) error {
	postedAt := a.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO announcements (day, channel, posted_at, shift_count, people_count, error)
		VALUES ($1::date,$2,$3,$4,$5,$6)
		ON CONFLICT (day, channel) DO UPDATE
		SET posted_at=EXCLUDED.posted_at, shift_count=EXCLUDED.shift_count,
		    people_count=EXCLUDED.people_count, error=EXCLUDED.error
	`, a.Day.Format(dayLayout), a.Channel, postedAt.UTC(), a.ShiftCount, a.PeopleCount, a.Error)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	return nil
}

func (r *LedgerRepo) Recent(ctx context.Context, limit int) ([]announcement.Announcement, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT day::text, channel, posted_at, shift_count, people_count, error
		FROM announcements
		ORDER BY posted_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	defer rows.Close()

	var out []announcement.Announcement
	for rows.Next() {
		var a announcement.Announcement
		var day string
		if err := rows.Scan(&day, &a.Channel, &a.PostedAt, &a.ShiftCount, &a.PeopleCount, &a.Error); err != nil {
			return nil, err
		}
		a.Day, err = time.ParseInLocation(dayLayout, day, time.Local)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
