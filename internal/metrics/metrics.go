// Package metrics exposes Prometheus metrics for imports and HTTP traffic.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

const namespace = "leadimport"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	activeRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Number of in-flight HTTP requests",
		},
	)

	importsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Imports by file format and outcome",
		},
		[]string{"format", "outcome"},
	)

	importDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Time spent processing an uploaded file",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"format"},
	)

	leadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_total",
			Help:      "Processed rows by disposition",
		},
		[]string{"disposition"},
	)

	forcedMappings = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forced_mappings_total",
			Help:      "Imports that fell back to positional name/email/phone columns",
		},
	)
)

// Import outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeInterrupted = "interrupted"
	OutcomeRejected    = "rejected"
)

// Observer records import outcomes. It implements core.ImportObserver.
type Observer struct{}

func NewObserver() Observer { return Observer{} }

func (Observer) ObserveImport(report core.Report, err error) {
	format := string(report.Format)
	if format == "" {
		format = "unknown"
	}

	importsTotal.WithLabelValues(format, Outcome(err)).Inc()
	if report.Format != "" {
		importDuration.WithLabelValues(format).Observe(report.Duration.Seconds())
	}

	r := report.Result
	leadsTotal.WithLabelValues("imported").Add(float64(r.ImportedLeads))
	leadsTotal.WithLabelValues("error").Add(float64(r.ErrorLeads))
	leadsTotal.WithLabelValues("duplicate").Add(float64(r.DuplicateLeads))
	if report.Forced {
		forcedMappings.Inc()
	}
}

// Outcome classifies an import error for the imports_total metric.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, core.ErrImportInterrupted),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeInterrupted
	default:
		return OutcomeRejected
	}
}

// Middleware counts requests and their latency, labeled by chi route
// pattern so path parameters do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeRequests.Inc()
		defer activeRequests.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
