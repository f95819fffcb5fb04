// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestInstrumentHandlerUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(InstrumentHandler)
	r.HandleFunc("/teams/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods(http.MethodGet)

	for _, path := range []string{"/teams/abc", "/teams/def"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Contains(t, scrape(t),
		`budget_intake_http_requests_total{method="GET",route="/teams/{id}",status="418"} 2`)
}

func TestDomainCounters(t *testing.T) {
	RecordNotification(errors.New("down"))
	RecordBudgetDecision("pre-sale", "rejected")
	RecordResponseBatch("accepted")

	body := scrape(t)
	assert.Contains(t, body, `budget_intake_notify_notifications_total{result="failed"} 1`)
	assert.Contains(t, body, `budget_intake_budget_decisions_total{role="pre-sale",status="rejected"} 1`)
	assert.Contains(t, body, `budget_intake_intake_response_batches_total{outcome="accepted"} 1`)
}

func TestStatusRecorderHijackUnsupported(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	_, _, err := rec.Hijack()
	assert.Error(t, err)
}
