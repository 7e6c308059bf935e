package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomePosted labels runs whose announcement went out cleanly.
	OutcomePosted = "posted"
	// OutcomeSkipped labels runs suppressed because the day was already announced.
	OutcomeSkipped = "skipped"
	// OutcomeError labels runs that carried any error.
	OutcomeError = "error"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shiftcall",
			Name:      "runs_total",
			Help:      "Total number of announcement runs, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	runDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shiftcall",
			Name:      "run_seconds",
			Help:      "Announcement run latency in seconds, browser login included.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
	)

	shiftsFetched = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shiftcall",
			Name:      "shifts_fetched",
			Help:      "Number of shift records returned by the last run.",
		},
	)

	lastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shiftcall",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that posted without error.",
		},
	)
)

// Register attaches shiftcall collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		runsTotal,
		runDurationSeconds,
		shiftsFetched,
		lastSuccess,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveRun records one run's duration, outcome and shift count.
func ObserveRun(duration time.Duration, outcome string, shifts int, finished time.Time) {
	switch outcome {
	case OutcomePosted, OutcomeSkipped:
	default:
		outcome = OutcomeError
	}
	runsTotal.WithLabelValues(outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	runDurationSeconds.Observe(duration.Seconds())
	shiftsFetched.Set(float64(shifts))
	if outcome == OutcomePosted {
		lastSuccess.Set(float64(finished.Unix()))
	}
}
