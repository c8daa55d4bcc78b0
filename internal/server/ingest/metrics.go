package ingest

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalidInput    = "invalid_input"
	OutcomeStagingFailed   = "staging_failed"
	OutcomeTranscodeFailed = "transcode_failed"
	OutcomePersistFailed   = "persist_failed"
)

var (
	ingestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clipvault_ingest_duration_seconds",
		Help:    "Duration of upload ingestion in seconds",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"outcome"})

	ingestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipvault_ingest_total",
		Help: "Total number of ingest attempts by outcome",
	}, []string{"outcome"})
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, common.ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, common.ErrStagingFailed):
		return OutcomeStagingFailed
	case errors.Is(err, common.ErrTranscodeFailed):
		return OutcomeTranscodeFailed
	default:
		return OutcomePersistFailed
	}
}

func observe(err error, elapsed time.Duration) {
	outcome := outcomeOf(err)
	ingestDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	ingestTotal.WithLabelValues(outcome).Inc()
}
