package middleware

import (
	"fmt"
	"html"
	"net/http"
	"runtime/debug"

	"github.com/naresh-2026/warehouseProducts/pkg/logger"
)

type RecoveryConfig struct {
	// Verbose включает страницу ошибки со stack trace. Только для DEBUG=true.
	Verbose bool
	OnPanic func()
}

const debugErrorPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>500 Internal Server Error</title></head>
<body>
<h1>Internal Server Error</h1>
<p><strong>%s %s</strong> (request %s)</p>
<h2>panic: %s</h2>
<pre>%s</pre>
</body>
</html>
`

// Recovery превращает panic в ответ 500, процесс продолжает работать.
// Если ответ уже начат, 500 отправить нельзя: соединение обрывается через http.ErrAbortHandler.
func Recovery(cfg RecoveryConfig, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &accessRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := debug.Stack()
				if cfg.OnPanic != nil {
					cfg.OnPanic()
				}
				log.Error("Panic recovered", fmt.Errorf("%v", rec),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", RequestIDFrom(r),
					"response_started", rw.headerSent,
				)

				if rw.headerSent {
					panic(http.ErrAbortHandler)
				}

				if !cfg.Verbose {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}

				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.Header().Set("X-Content-Type-Options", "nosniff")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = fmt.Fprintf(w, debugErrorPage,
					html.EscapeString(r.Method),
					html.EscapeString(r.URL.Path),
					html.EscapeString(RequestIDFrom(r)),
					html.EscapeString(fmt.Sprint(rec)),
					html.EscapeString(string(stack)),
				)
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
