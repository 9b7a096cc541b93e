package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gabeliss/tickX/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	m := observability.NewMetrics("test")
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/events/{eventId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/def", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/events/{eventId}", "404")))
}

func TestMetrics_NilIsPassThrough(t *testing.T) {
	called := false
	h := Metrics(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
}

func TestLogger_LogsCatalogQueryShape(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := chi.NewRouter()
	r.Use(Logger(zap.New(core)))
	r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events?city=chicago&q=jazz&cursor=abc", nil))

	entries := logs.FilterMessage("request completed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "/events", fields["route"])
		assert.Equal(t, "ok", fields["result"])
		assert.Equal(t, "chicago", fields["city"])
		assert.Equal(t, true, fields["search"])
		assert.Equal(t, true, fields["cursor"])
	}
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
		result string
	}{
		{http.StatusOK, zap.InfoLevel, "ok"},
		{http.StatusNotFound, zap.WarnLevel, "client_error"},
		{http.StatusBadGateway, zap.ErrorLevel, "server_error"},
	}
	for _, tt := range tests {
		core, logs := observer.New(zap.DebugLevel)
		h := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/venues/v1", nil))

		entries := logs.All()
		if assert.Len(t, entries, 1, tt.status) {
			assert.Equal(t, tt.level, entries[0].Level, tt.status)
			fields := entries[0].ContextMap()
			assert.Equal(t, tt.result, fields["result"])
			assert.Equal(t, "unmatched", fields["route"])
			assert.NotContains(t, fields, "cursor")
		}
	}
}
