package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shiftcall/internal/domain/announcement"
)

func TestLedgerRepo(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, `DELETE FROM announcements WHERE channel LIKE 'test-%'`)
	require.NoError(t, err)

	repo := NewLedgerRepo(pool)
	day := time.Date(2026, 10, 18, 6, 0, 0, 0, time.Local)

	ok, err := repo.Posted(ctx, day, "test-ops")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Record(ctx, announcement.Announcement{
		Day: day, Channel: "test-ops", ShiftCount: 4, PeopleCount: 2, Error: "transport timeout",
	}))
	ok, err = repo.Posted(ctx, day, "test-ops")
	require.NoError(t, err)
	assert.False(t, ok, "a failed run must not suppress a retry")

	require.NoError(t, repo.Record(ctx, announcement.Announcement{
		Day: day, Channel: "test-ops", ShiftCount: 5, PeopleCount: 3,
	}))
	ok, err = repo.Posted(ctx, day, "test-ops")
	require.NoError(t, err)
	assert.True(t, ok)

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
	var found bool
	for _, a := range recent {
		if a.Channel == "test-ops" {
			found = true
			assert.Equal(t, 5, a.ShiftCount)
			assert.True(t, a.Succeeded())
			assert.Equal(t, "2026-10-18", a.Day.Format(dayLayout))
		}
	}
	assert.True(t, found)
}
