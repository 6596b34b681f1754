package logger

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Response headers the conversion handler sets and the access log picks
// up.
const (
	HeaderCache    = "x-geoleaf-cache"
	HeaderWarnings = "x-geoleaf-warnings"
)

// accessRecorder captures what the access log needs from a response:
// the status, the body size and the headers as they were sent.
type accessRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	contentType string
	cache       string
	warnings    string
}

func (w *accessRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
		h := w.Header()
		w.contentType = h.Get("content-type")
		w.cache = h.Get(HeaderCache)
		w.warnings = h.Get(HeaderWarnings)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *accessRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// level picks the access log level for a status: server errors at
// ERROR, client errors at WARN, the rest at DEBUG.
func level(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelDebug
}

// AccessMiddleware logs one line per request. The request body is never
// read.
func AccessMiddleware(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &accessRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"bytes", rec.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", r.RemoteAddr,
			}
			if rec.contentType != "" {
				attrs = append(attrs, "content_type", rec.contentType)
			}
			if rec.cache != "" {
				attrs = append(attrs, "cache", rec.cache)
			}
			if rec.warnings != "" {
				attrs = append(attrs, "warnings", rec.warnings)
			}
			l.Log(context.Background(), level(rec.status), "http_access", attrs...)
		})
	}
}
