package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/cvitae/latexsvc/internal/logfields"
)

// requestLogger emits one structured line per request in the service's
// canonical field vocabulary.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("Request handled",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.RemoteAddr(r.RemoteAddr),
			logfields.RequestID(middleware.GetReqID(r.Context())),
			slog.Int("status", ww.Status()),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	})
}
