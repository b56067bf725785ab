package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/api/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging(t *testing.T) {
	t.Run("Adds correlation id and logs completion", func(t *testing.T) {
		// Arrange
		var seenID string
		next := middleware.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			seenID = r.Header.Get("X-Request-ID")
			assert.NotNil(t, r.Context().Value(middleware.LoggerKey), "request-scoped logger should be in context")
			rec := httptest.NewRecorder()
			rec.WriteHeader(http.StatusOK)
			return rec.Result(), nil
		})

		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		ctx := context.WithValue(context.Background(), middleware.LoggerKey, logger)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://backend.local/products", nil)
		require.NoError(t, err)

		// Act
		resp, err := middleware.Logging(next).RoundTrip(req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, seenID)
		assert.Empty(t, req.Header.Get("X-Request-ID"), "caller's request must not be modified")
		assert.Contains(t, buf.String(), "Request Completed")
		assert.Contains(t, buf.String(), seenID)
		assert.Contains(t, buf.String(), `"http_path":"/products"`)
	})

	t.Run("Keeps an existing correlation id", func(t *testing.T) {
		// Arrange
		var seenID string
		next := middleware.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			seenID = r.Header.Get("X-Request-ID")
			return httptest.NewRecorder().Result(), nil
		})
		req := httptest.NewRequest(http.MethodGet, "http://backend.local/cart", nil)
		req.Header.Set("X-Request-ID", "fixed-id")

		// Act
		_, err := middleware.Logging(next).RoundTrip(req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "fixed-id", seenID)
	})

	t.Run("Propagates transport errors", func(t *testing.T) {
		// Arrange
		boom := errors.New("connection refused")
		next := middleware.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return nil, boom
		})
		req := httptest.NewRequest(http.MethodGet, "http://backend.local/products", nil)

		// Act
		resp, err := middleware.Logging(next).RoundTrip(req)

		// Assert
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, boom)
	})
}

func TestLoggerFromContext(t *testing.T) {
	assert.Equal(t, slog.Default(), middleware.LoggerFromContext(context.Background()))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := context.WithValue(context.Background(), middleware.LoggerKey, logger)
	assert.Equal(t, logger, middleware.LoggerFromContext(ctx))
}
