package repository_test

import (
	"errors"
	"testing"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/config"
	repository "github.com/aaravmahajanofficial/qkart-storefront/internal/repositories"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/testutils"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionRepository(t *testing.T) {
	ctx := t.Context()
	key := repository.SessionKey("tester")

	t.Run("Get - Found", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		repo := repository.NewRedisSessionRepo(client, "tester")
		mock.ExpectHGet(key, "token").SetVal("abc")

		// Act
		value, found, err := repo.Get(ctx, "token")

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "abc", value)
		assert.NoError(t, mock.ExpectationsWereMet(), "Redis mock expectations not met")
	})

	t.Run("Get - Miss", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		repo := repository.NewRedisSessionRepo(client, "tester")
		mock.ExpectHGet(key, "token").RedisNil()

		// Act
		value, found, err := repo.Get(ctx, "token")

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get - Redis Error", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		repo := repository.NewRedisSessionRepo(client, "tester")
		mock.ExpectHGet(key, "token").SetErr(errors.New("connection reset"))

		// Act
		_, found, err := repo.Get(ctx, "token")

		// Assert
		assert.False(t, found)
		assert.ErrorContains(t, err, "failed to get session field token")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Set", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		repo := repository.NewRedisSessionRepo(client, "tester")
		mock.ExpectHSet(key, "username", "criodo").SetVal(1)

		// Act
		err := repo.Set(ctx, "username", "criodo")

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Clear", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		repo := repository.NewRedisSessionRepo(client, "tester")
		mock.ExpectDel(key).SetVal(1)

		// Act
		err := repo.Clear(ctx)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisSessionRepository_RoundTrip(t *testing.T) {
	ctx := t.Context()
	server := miniredis.RunT(t)

	cfg := testutils.Config(t, "http://backend.local")
	cfg.Session.Store = config.SessionStoreRedis
	cfg.Session.RedisURL = "redis://" + server.Addr() + "/0"
	cfg.Session.Namespace = "roundtrip"

	repo, err := repository.NewSessionRepository(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.Set(ctx, "token", "abc"))
	require.NoError(t, repo.Set(ctx, "username", "criodo"))
	assert.Equal(t, "abc", server.HGet(repository.SessionKey("roundtrip"), "token"))

	value, found, err := repo.Get(ctx, "username")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "criodo", value)

	require.NoError(t, repo.Clear(ctx))
	assert.False(t, server.Exists(repository.SessionKey("roundtrip")))

	_, found, err = repo.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found)
}
