package health

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const Version = "1.0.0"

// NewHealthHandler checks everything the storefront depends on: the QKart
// backend and whichever session store is configured.
func NewHealthHandler(cfg *config.Config, client *http.Client) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "backend",
			Timeout:   cfg.Backend.Timeout,
			SkipOnErr: false,
			Check:     BackendCheck(cfg.Backend.BaseURL, client),
		},
	}

	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		checks = append(checks, health.Config{
			Name:      "session-redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.Session.RedisURL,
			}),
		})
	default:
		checks = append(checks, health.Config{
			Name:      "session-file",
			Timeout:   time.Second,
			SkipOnErr: true,
			Check:     FileStoreCheck(cfg.Session.Path),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: Version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

// BackendCheck fails when the product listing cannot be reached or answers
// with a server error.
func BackendCheck(baseURL string, client *http.Client) health.CheckFunc {
	return func(ctx context.Context) error {

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/products", nil)
		if err != nil {
			return fmt.Errorf("failed to build backend request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to reach backend: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("backend returned status %d", resp.StatusCode)
		}

		return nil
	}
}

// FileStoreCheck fails when the session file's directory cannot be created.
func FileStoreCheck(path string) health.CheckFunc {
	return func(context.Context) error {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("session directory is not writable: %w", err)
		}

		return nil
	}
}
