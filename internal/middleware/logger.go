// internal/middleware/logger.go
//
// Request logging and request counting.
//
// Logger derives a child of the global zap logger carrying the chi request
// id, method, and path, stores it in the context for everything downstream
// (logger.FromContext), and writes one line per request once the handler
// returns.  It also feeds metrics.HTTPRequestsTotal.
//
// Place it after chi's RequestID so the id is available.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jkkniu-techhub/techhub/internal/logger"
	"github.com/jkkniu-techhub/techhub/internal/metrics"
)

// Logger logs each request through zap.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := zap.S().With(
			"req_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), log)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()

		fields := []any{"status", status, "bytes", ww.BytesWritten(), "dur", time.Since(start)}
		switch {
		case status >= 500:
			log.Warnw("request", fields...)
		case r.URL.Path == "/metrics":
			log.Debugw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	})
}
