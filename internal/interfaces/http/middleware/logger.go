package middleware

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/naresh-2026/warehouseProducts/pkg/logger"
)

// quietPaths логируются на уровне Debug: их дергают пробы и prometheus.
var quietPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// Logger middleware пишет access log: одна запись на запрос.
// 5xx пишутся как Warn, пробы и /metrics как Debug.
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &accessRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", r.Pattern,
				"status", rec.status,
				"bytes", rec.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"request_id", RequestIDFrom(r),
			}

			_, quiet := quietPaths[r.URL.Path]
			switch {
			case rec.status >= http.StatusInternalServerError:
				log.Warn("HTTP Request", fields...)
			case quiet:
				log.Debug("HTTP Request", fields...)
			default:
				log.Info("HTTP Request", fields...)
			}
		})
	}
}

// accessRecorder запоминает первый статус, число записанных байт тела
// и то, начат ли ответ. Используется Logger и Recovery.
type accessRecorder struct {
	http.ResponseWriter
	status     int
	written    int
	headerSent bool
}

func (rec *accessRecorder) WriteHeader(code int) {
	if !rec.headerSent {
		rec.status = code
		rec.headerSent = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *accessRecorder) Write(b []byte) (int, error) {
	rec.headerSent = true
	n, err := rec.ResponseWriter.Write(b)
	rec.written += n
	return n, err
}

// Hijack нужен для /debug/reload
func (rec *accessRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	rec.status = http.StatusSwitchingProtocols
	rec.headerSent = true
	return hijacker.Hijack()
}

func (rec *accessRecorder) Flush() {
	if flusher, ok := rec.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap для http.ResponseController
func (rec *accessRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}
