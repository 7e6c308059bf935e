package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shiftcall/internal/application/scheduler"
	"github.com/example/shiftcall/internal/observability/metrics"
)

type fixedRuns struct {
	last scheduler.LastRun
	ok   bool
}

func (f fixedRuns) Last() (scheduler.LastRun, bool) { return f.last, f.ok }

func TestHealthz(t *testing.T) {
	srv := New(":0", fixedRuns{}, prometheus.NewRegistry(), nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body healthResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Nil(t, body.LastRun)
}

func TestHealthzReportsLastRun(t *testing.T) {
	finished := time.Date(2025, 10, 18, 6, 30, 12, 0, time.UTC)
	runs := fixedRuns{ok: true, last: scheduler.LastRun{Finished: finished, Outcome: metrics.OutcomeError, Error: "API response success: false"}}
	ts := httptest.NewServer(New(":0", runs, prometheus.NewRegistry(), nil).Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()

	var body healthResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.NotNil(t, body.LastRun)
	assert.Equal(t, metrics.OutcomeError, body.LastRun.Outcome)
	assert.True(t, finished.Equal(body.LastRun.Finished))

	post, err := http.Post(ts.URL+"/healthz", "text/plain", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))
	metrics.ObserveRun(2*time.Second, metrics.OutcomePosted, 7, time.Now())

	ts := httptest.NewServer(New(":0", nil, reg, nil).Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Contains(t, string(b), "shiftcall_runs_total")
	assert.Contains(t, string(b), `outcome="posted"`)
	assert.Contains(t, string(b), "shiftcall_shifts_fetched 7")
	assert.Contains(t, string(b), "shiftcall_run_seconds_bucket")
}
