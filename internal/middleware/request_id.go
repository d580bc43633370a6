package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// NewRequestID returns a fresh correlation id for an outbound request
func NewRequestID() string {
	return uuid.NewString()
}

// RequestID makes sure every request carries a correlation id and logs the
// round trip at debug level.
func RequestID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = NewRequestID()
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, id)
		}

		logger := slog.With(
			"middleware", "request_id",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
		)

		start := time.Now()
		resp, err := next.RoundTrip(r)
		if err != nil {
			logger.Debug("Round trip failed", "error", err, "duration", time.Since(start))
			return nil, err
		}

		logger.Debug("Round trip completed", "status_code", resp.StatusCode, "duration", time.Since(start))
		return resp, nil
	})
}
