package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome(nil))
	assert.Equal(t, OutcomeInterrupted, Outcome(fmt.Errorf("%w: %w", core.ErrImportInterrupted, context.Canceled)))
	assert.Equal(t, OutcomeInterrupted, Outcome(context.DeadlineExceeded))
	assert.Equal(t, OutcomeRejected, Outcome(core.ErrUnsupportedFormat))
	assert.Equal(t, OutcomeRejected, Outcome(errors.New("boom")))
}

func TestObserver_ObserveImport(t *testing.T) {
	imported := testutil.ToFloat64(leadsTotal.WithLabelValues("imported"))
	dupes := testutil.ToFloat64(leadsTotal.WithLabelValues("duplicate"))
	success := testutil.ToFloat64(importsTotal.WithLabelValues("xlsx", OutcomeSuccess))
	forced := testutil.ToFloat64(forcedMappings)
	unknown := testutil.ToFloat64(importsTotal.WithLabelValues("unknown", OutcomeRejected))

	obs := NewObserver()
	obs.ObserveImport(core.Report{
		Result:   core.ImportResult{ImportedLeads: 4, ErrorLeads: 1, DuplicateLeads: 2},
		Format:   core.FormatXLSX,
		Forced:   true,
		Duration: 150 * time.Millisecond,
	}, nil)
	obs.ObserveImport(core.Report{}, core.ErrUnsupportedFormat)

	assert.Equal(t, imported+4, testutil.ToFloat64(leadsTotal.WithLabelValues("imported")))
	assert.Equal(t, dupes+2, testutil.ToFloat64(leadsTotal.WithLabelValues("duplicate")))
	assert.Equal(t, success+1, testutil.ToFloat64(importsTotal.WithLabelValues("xlsx", OutcomeSuccess)))
	assert.Equal(t, forced+1, testutil.ToFloat64(forcedMappings))
	assert.Equal(t, unknown+1, testutil.ToFloat64(importsTotal.WithLabelValues("unknown", OutcomeRejected)))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/imports/{importID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/imports/{importID}", "404"))

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/imports/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/imports/{importID}", "404"))
	assert.Equal(t, before+3, after)
}
