package repository_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/config"
	repository "github.com/aaravmahajanofficial/qkart-storefront/internal/repositories"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSessionRepository(t *testing.T) {
	ctx := t.Context()

	t.Run("Set Get Clear", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "nested", "session.json")
		repo := repository.NewFileSessionRepo(path)

		// Act & Assert
		_, found, err := repo.Get(ctx, "token")
		require.NoError(t, err)
		assert.False(t, found, "empty store should report a miss")

		require.NoError(t, repo.Set(ctx, "token", "abc"))
		require.NoError(t, repo.Set(ctx, "username", "criodo"))

		value, found, err := repo.Get(ctx, "token")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "abc", value)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.False(t, info.IsDir())

		require.NoError(t, repo.Clear(ctx))
		_, found, err = repo.Get(ctx, "username")
		require.NoError(t, err)
		assert.False(t, found, "clear should drop every key")
	})

	t.Run("Persists across instances", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, repository.NewFileSessionRepo(path).Set(ctx, "username", "criodo"))

		// Act
		value, found, err := repository.NewFileSessionRepo(path).Get(ctx, "username")

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "criodo", value)
	})

	t.Run("Clear on missing file", func(t *testing.T) {
		repo := repository.NewFileSessionRepo(filepath.Join(t.TempDir(), "session.json"))
		assert.NoError(t, repo.Clear(ctx))
	})

	t.Run("Corrupt file", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		repo := repository.NewFileSessionRepo(path)

		// Act
		_, _, err := repo.Get(ctx, "token")

		// Assert
		assert.ErrorContains(t, err, "failed to parse session file")
	})
}

func TestNewSessionRepository(t *testing.T) {
	t.Run("File store", func(t *testing.T) {
		cfg := testutils.Config(t, "http://backend.local")

		repo, err := repository.NewSessionRepository(cfg)

		require.NoError(t, err)
		assert.NotNil(t, repo)
		assert.NoError(t, repo.Close())
	})

	t.Run("Unknown store", func(t *testing.T) {
		cfg := testutils.Config(t, "http://backend.local")
		cfg.Session.Store = "cookie"

		repo, err := repository.NewSessionRepository(cfg)

		assert.Error(t, err)
		assert.Nil(t, repo)
	})

	t.Run("Redis store unreachable", func(t *testing.T) {
		cfg := testutils.Config(t, "http://backend.local")
		cfg.Session.Store = config.SessionStoreRedis
		cfg.Session.RedisURL = "redis://127.0.0.1:1/0"

		repo, err := repository.NewSessionRepository(cfg)

		assert.ErrorContains(t, err, "failed to connect to Redis")
		assert.Nil(t, repo)
	})
}
