package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/config"
)

// SessionRepository is the persistent key-value storage behind the session:
// a handful of string values under fixed key names.
type SessionRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
	Close() error
}

func NewSessionRepository(cfg *config.Config) (SessionRepository, error) {

	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		return NewRedisSessionRepo(client, cfg.Session.Namespace), nil
	case config.SessionStoreFile:
		return NewFileSessionRepo(cfg.Session.Path), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

type fileSessionRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileSessionRepo(path string) SessionRepository {
	return &fileSessionRepository{path: path}
}

func (r *fileSessionRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.read()
	if err != nil {
		return "", false, err
	}

	value, ok := values[key]
	return value, ok, nil
}

func (r *fileSessionRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.read()
	if err != nil {
		return err
	}

	values[key] = value

	return r.write(values)
}

func (r *fileSessionRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear session file %s: %w", r.path, err)
	}

	return nil
}

func (r *fileSessionRepository) Close() error {
	return nil
}

func (r *fileSessionRepository) read() (map[string]string, error) {

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file %s: %w", r.path, err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", r.path, err)
	}

	return values, nil
}

// write replaces the file atomically so a crash never leaves half a session
func (r *fileSessionRepository) write(values map[string]string) error {

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}
