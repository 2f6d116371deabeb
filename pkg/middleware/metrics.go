package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/scholarsearch/retrieval-platform/pkg/metrics"
)

// Metrics returns middleware that records HTTP request count, latency, and
// in-flight gauge.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path)

			m.HTTPRequestsTotal.WithLabelValues(
				r.Method,
				path,
				strconv.Itoa(sw.status),
			).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses per-document paths so document ids do not blow up
// metric cardinality.
func normalizePath(path string) string {
	const docPrefix = "/api/v1/documents/"
	if strings.HasPrefix(path, docPrefix) {
		rest := strings.TrimPrefix(path, docPrefix)
		if suffix := "/terms"; strings.HasSuffix(rest, suffix) {
			return docPrefix + ":id" + suffix
		}
		return docPrefix + ":id"
	}
	return path
}
