package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// RecoveryMiddleware logs a handler panic and answers 500 if nothing was
// written yet.
func RecoveryMiddleware(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw, ok := w.(*responseWriter)
			if !ok {
				rw = &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			}
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(logrus.Fields{
						"request_id": RequestIDFrom(r),
						"stack":      string(debug.Stack()),
					}).Errorf("panic recovered: %v", err)

					if !rw.wroteHeader() {
						JSONError(rw, http.StatusInternalServerError, "Internal server error")
					}
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
