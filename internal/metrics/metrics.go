// Package metrics exposes prometheus counters for the vocabulary workflows.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordwise_lookups_total",
			Help: "Dictionary lookups by result",
		},
		[]string{"result"},
	)

	lookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wordwise_lookup_duration_seconds",
			Help:    "Dictionary lookup duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	wordsSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordwise_words_saved_total",
			Help: "Save attempts by outcome",
		},
		[]string{"outcome"},
	)

	reviewAnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordwise_review_answers_total",
			Help: "Answered review questions",
		},
		[]string{"correct"},
	)

	reviewSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordwise_review_sessions_total",
			Help: "Review sessions by how they ended",
		},
		[]string{"outcome"},
	)

	persistenceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordwise_persistence_errors_total",
			Help: "Writes to storage that failed after an in-memory change",
		},
		[]string{"operation"},
	)
)

// Lookup results.
const (
	LookupFound       = "found"
	LookupNotFound    = "not_found"
	LookupUnavailable = "unavailable"
)

// Save outcomes.
const (
	SaveCreated   = "created"
	SaveDuplicate = "duplicate"
	SaveRejected  = "rejected"
)

// Session outcomes.
const (
	SessionStarted   = "started"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

func ObserveLookup(result string, took time.Duration) {
	lookupsTotal.WithLabelValues(result).Inc()
	lookupDuration.Observe(took.Seconds())
}

func ObserveSave(outcome string) {
	wordsSavedTotal.WithLabelValues(outcome).Inc()
}

func ObserveAnswer(correct bool) {
	reviewAnswersTotal.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

func ObserveSession(outcome string) {
	reviewSessionsTotal.WithLabelValues(outcome).Inc()
}

func ObservePersistenceError(operation string) {
	persistenceErrorsTotal.WithLabelValues(operation).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
