package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Middleware struct {
	log *logrus.Logger
}

func NewMiddleware(log *logrus.Logger) *Middleware {
	return &Middleware{log: log}
}

// statusWriter captures the response status for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Logging records method, path, status and latency for every request.
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		entry := m.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  sw.status,
			"latency": time.Since(start).String(),
		})

		switch {
		case sw.status >= http.StatusInternalServerError:
			entry.Error("server error")
		case sw.status >= http.StatusBadRequest:
			entry.Warn("client error")
		default:
			entry.Info("request processed")
		}
	})
}

// Recovery turns a handler panic into a 500 for that request instead of
// taking the process down.
func (m *Middleware) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.log.WithField("panic", rec).WithField("path", r.URL.Path).Error("recovered from panic")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
