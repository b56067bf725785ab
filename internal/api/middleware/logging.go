package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type logContextKey string

const LoggerKey = logContextKey("logger")

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Logging tags every outbound backend call with a correlation id and logs
// its start and completion.
func Logging(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {

		start := time.Now()

		// Correlation ID
		correlationID := r.Header.Get("X-Request-ID")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		// RoundTrippers must not modify the caller's request
		r = r.Clone(r.Context())
		r.Header.Set("X-Request-ID", correlationID)

		// Request-scoped logger, every log line would contain these fields
		requestLogger := LoggerFromContext(r.Context()).With(
			slog.String("correlation_id", correlationID),
			slog.String("http_method", r.Method),
			slog.String("http_path", r.URL.Path),
		)

		requestLogger.Debug("Outgoing request")

		resp, err := next.RoundTrip(r.WithContext(context.WithValue(r.Context(), LoggerKey, requestLogger)))
		if err != nil {
			requestLogger.Warn("Request failed", slog.String("error", err.Error()), slog.Duration("duration", time.Since(start)))
			return nil, err
		}

		requestLogger.Info("Request Completed", slog.Int("http_status", resp.StatusCode), slog.Duration("duration", time.Since(start)))

		return resp, nil
	})
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}

	return slog.Default()
}
