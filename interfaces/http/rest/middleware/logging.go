package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes one access log entry per request. Entries carry the matched
// route pattern and the catalog query shape (city, keyword search, cursor
// page) so list traffic can be told apart without parsing raw query strings.
// Server errors log at Error, client errors at Warn.
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			query := r.URL.Query()

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("route", routeLabel(r)),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.String("result", resultClass(status)),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestID", middleware.GetReqID(r.Context())),
			}
			if city := query.Get("city"); city != "" {
				fields = append(fields, zap.String("city", city))
			}
			if query.Get("keyword") != "" || query.Get("q") != "" {
				fields = append(fields, zap.Bool("search", true))
			}
			if query.Get("cursor") != "" {
				fields = append(fields, zap.Bool("cursor", true))
			}

			if ce := logger.Check(levelFor(status), "request completed"); ce != nil {
				ce.Write(fields...)
			}
		})
	}
}

// routeLabel returns the chi pattern that served r, or "unmatched".
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func resultClass(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return "ok"
	}
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
