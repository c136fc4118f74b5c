package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"filedrop/internal/httputil"
)

var handlerPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "filedrop_http_handler_panics_total",
	Help: "Handler panics turned into 500 responses",
})

// Recovery turns a handler panic into a 500 problem response. http.ErrAbortHandler
// is passed through so net/http can drop the connection quietly.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				handlerPanicsTotal.Inc()
				logger.Error("handler panicked",
					"request_id", httputil.GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", v,
					"stack", string(debug.Stack()),
				)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
