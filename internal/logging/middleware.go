package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Middleware logs one line per request with status, size and latency.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		entry := WithContext(r.Context()).WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  status,
			"bytes":   ww.BytesWritten(),
			"latency": time.Since(start).String(),
			"remote":  r.RemoteAddr,
		})
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
	})
}
