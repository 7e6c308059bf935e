package jolt

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindow(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	for _, now := range []time.Time{
		time.Date(2026, 10, 18, 0, 30, 0, 0, loc),
		time.Date(2026, 10, 18, 6, 0, 0, 0, loc),
		time.Date(2026, 10, 18, 23, 59, 59, 0, loc),
	} {
		start, end := DayWindow(now)
		assert.Equal(t, time.Date(2026, 10, 18, 6, 0, 0, 0, loc), start)
		assert.Equal(t, time.Date(2026, 10, 19, 5, 59, 59, 0, loc), end)
	}
}

func TestNewQueryDefaults(t *testing.T) {
	q := NewQuery("", " ")
	assert.Equal(t, DefaultBaseURL, q.BaseURL)
	assert.Equal(t, DefaultLocationID, q.LocationID)

	q = NewQuery("http://localhost:9000/", "loc-1")
	assert.Equal(t, "http://localhost:9000", q.BaseURL)
	assert.Equal(t, "loc-1", q.LocationID)
}

func TestQueryURL(t *testing.T) {
	now := time.Date(2026, 3, 4, 14, 12, 0, 0, time.UTC)
	raw := NewQuery("", "").URL(now)

	require.True(t, strings.HasPrefix(raw, "https://app.joltup.com/rest/v1/ScheduleShift?scopes="), raw)
	assert.NotContains(t, raw, "{")
	assert.NotContains(t, raw, "\"")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	require.Len(t, q, 3)

	var scopes map[string]any
	require.NoError(t, json.Unmarshal([]byte(q.Get("scopes")), &scopes))
	assert.Equal(t, []any{}, scopes["active"])
	assert.Equal(t, []any{}, scopes["checkForInvalidSwapTrades"])
	assert.Equal(t, []any{}, scopes["publishedScope"])
	assert.Equal(t, []any{true}, scopes["assignedScope"])
	assert.Equal(t, map[string]any{}, scopes["previouslyOwnedScope"])
	assert.Equal(t, []any{DefaultLocationID}, scopes["location"])
	assert.Equal(t, []any{"2026-03-04T06:00:00", "2026-03-05T05:59:59", true}, scopes["inRange"])

	assert.Equal(t, sortParam, q.Get("sort"))
	assert.Equal(t, withParam, q.Get("with"))

	var sort []map[string]string
	require.NoError(t, json.Unmarshal([]byte(q.Get("sort")), &sort))
	assert.Equal(t, []map[string]string{
		{"property": "startTime", "direction": "ASC"},
		{"property": "personId", "direction": "ASC"},
	}, sort)

	var with map[string]any
	require.NoError(t, json.Unmarshal([]byte(q.Get("with")), &with))
	for _, k := range []string{"swapRequest", "pickupRequests", "person", "role", "hasStations", "stations"} {
		assert.Contains(t, with, k)
	}
}

func TestQueryURL_ScopesFieldOrder(t *testing.T) {
	u, err := url.Parse(NewQuery("", "loc").URL(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t,
		`{"active":[],"checkForInvalidSwapTrades":[],"publishedScope":[],"assignedScope":[true],"previouslyOwnedScope":{},"location":["loc"],"inRange":["2026-01-01T06:00:00","2026-01-02T05:59:59",true]}`,
		u.Query().Get("scopes"))
}
