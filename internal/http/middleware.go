package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const headerRequestID = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestIDFrom id assigned by the request middleware, "" outside a request.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withRequestLog assigns a request id, recovers panics, records metrics and writes one
// access log line per request.
func withRequestLog(next http.Handler, logger *zap.Logger, metrics *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()

		requestID := req.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, requestID)
		req = req.WithContext(context.WithValue(req.Context(), requestIDKey, requestID))

		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			if p := recover(); p != nil {
				logger.Error("panic serving request",
					zap.Any("panic", p),
					zap.String("request_id", requestID),
					zap.String("path", req.URL.Path),
				)
				if rec.status == 0 {
					writeErrorMessage(rec, http.StatusInternalServerError, "Internal server error")
				}
			}
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			elapsed := time.Since(start)
			metrics.observe(req.Method, req.URL.Path, rec.status, elapsed)
			logger.Info("http request",
				zap.String("request_id", requestID),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", rec.status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", elapsed),
			)
		}()

		next.ServeHTTP(rec, req)
	})
}
