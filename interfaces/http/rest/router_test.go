package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gabeliss/tickX/application/ports/mocks"
	"github.com/gabeliss/tickX/application/services"
	catalogsync "github.com/gabeliss/tickX/application/sync"
	"github.com/gabeliss/tickX/domain/catalog"
	"github.com/gabeliss/tickX/interfaces/http/rest/handlers"
	"github.com/gabeliss/tickX/pkg/errors"
	"github.com/gabeliss/tickX/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type stubRunner struct{ runs int }

func (s *stubRunner) Run(context.Context) *catalogsync.Report {
	s.runs++
	return &catalogsync.Report{RunID: "r"}
}

func newTestRouter(runner *stubRunner, metrics *observability.Metrics) (http.Handler, *mocks.EventRepository) {
	events := new(mocks.EventRepository)
	logger := zap.NewNop()
	svc := services.NewCatalogService(events, new(mocks.VenueRepository), logger, 0)

	var syncRunner handlers.SyncRunner
	if runner != nil {
		syncRunner = runner
	}
	rt := NewRouter(svc, syncRunner, metrics, logger, errors.NewErrorHandler(logger, false), RouterConfig{
		CORSOrigins: []string{"https://tickx.app"},
	})
	return rt.Setup(), events
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_Routes(t *testing.T) {
	runner := &stubRunner{}
	h, events := newTestRouter(runner, observability.NewMetrics("test"))
	events.On("QueryByCity", mock.Anything, "chicago", mock.Anything).Return(&catalog.Page[catalog.Event]{}, nil)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/events").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/sync").Code)
	assert.Equal(t, 1, runner.runs)

	rec := serve(h, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="GET",route="/events`)

	rec = serve(h, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestRouter_OptionalRoutes(t *testing.T) {
	h, _ := newTestRouter(nil, nil)

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodPost, "/sync").Code)
}

func TestRouter_CORS(t *testing.T) {
	h, _ := newTestRouter(nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	req.Header.Set("Origin", "https://tickx.app")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://tickx.app", rec.Header().Get("Access-Control-Allow-Origin"))
}
