package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/qkart-storefront/internal/errors"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// largest backend body we are willing to read
const maxBodyBytes = 4 << 20

type Repositories struct {
	Product ProductRepository
	Cart    CartRepository
	User    UserRepository
	Session SessionRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	client := NewHTTPClient(cfg)
	backend := NewBackend(cfg.Backend.BaseURL, client)

	session, err := NewSessionRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	return &Repositories{
		Product: NewProductRepo(backend),
		Cart:    NewCartRepo(backend),
		User:    NewUserRepo(backend),
		Session: session,
	}, nil
}

func (r *Repositories) Close() error {
	return r.Session.Close()
}

// NewHTTPClient builds the client every backend call goes through:
// tracing, then correlation-id logging, then Prometheus accounting.
func NewHTTPClient(cfg *config.Config) *http.Client {

	var transport http.RoundTripper = http.DefaultTransport
	transport = metrics.Transport(transport)
	transport = middleware.Logging(transport)
	transport = otelhttp.NewTransport(transport)

	return &http.Client{
		Timeout:   cfg.Backend.Timeout,
		Transport: transport,
	}
}

type Backend struct {
	baseURL string
	client  *http.Client
}

func NewBackend(baseURL string, client *http.Client) *Backend {
	return &Backend{baseURL: baseURL, client: client}
}

// call performs one JSON request. token may be empty; dest may be nil.
// Failures come back as AppErrors: NETWORK_ERROR when no usable response
// arrived, NOT_FOUND for 404 and BACKEND_ERROR for every other non-2xx.
func (b *Backend) call(ctx context.Context, method, path string, query url.Values, token string, body, dest any) error {

	logger := middleware.LoggerFromContext(ctx)

	target := b.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return appErrors.InternalError("Failed to encode request").WithError(err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return appErrors.InternalError("Failed to build request").WithError(err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return appErrors.NetworkError("Backend unreachable").WithError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return appErrors.NetworkError("Failed to read backend response").WithError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {

		var failure models.ErrorResponse
		if len(data) > 0 {
			if err := json.Unmarshal(data, &failure); err != nil {
				logger.Debug("Backend error body is not JSON", slog.Int("status", resp.StatusCode))
			}
		}

		detail := fmt.Sprintf("backend returned status %d for %s %s", resp.StatusCode, method, path)

		if resp.StatusCode == http.StatusNotFound {
			return appErrors.NotFoundError(failure.Message).WithDetail(detail)
		}

		return appErrors.BackendError(failure.Message, resp.StatusCode).WithDetail(detail)
	}

	if dest == nil {
		return nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Error("Backend returned invalid JSON", slog.String("path", path), slog.String("error", err.Error()))
		return appErrors.NetworkError("Backend returned invalid JSON").WithError(err)
	}

	return nil
}
