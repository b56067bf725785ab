package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/qkart-storefront/internal/errors"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/qkart-storefront/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "crio.do",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestSessionService_Load(t *testing.T) {
	t.Run("Restores a stored session", func(t *testing.T) {
		// Arrange
		repo := mocks.NewSessionRepository(map[string]string{
			"token":    "opaque-token",
			"username": "crio.do",
			"balance":  "5000",
		})
		sessions := service.NewSessionService(repo)

		// Act
		session, err := sessions.Load(context.Background())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.Session{Username: "crio.do", Token: "opaque-token", Balance: 5000}, session)
		assert.True(t, sessions.LoggedIn())
	})

	t.Run("Empty store means anonymous", func(t *testing.T) {
		sessions := service.NewSessionService(mocks.NewSessionRepository(nil))

		session, err := sessions.Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, models.Session{}, session)
		assert.False(t, sessions.LoggedIn())
	})

	t.Run("Expired JWT is treated as anonymous", func(t *testing.T) {
		// Arrange
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		repo := mocks.NewSessionRepository(map[string]string{
			"token":    signedToken(t, now.Add(-time.Minute)),
			"username": "crio.do",
		})
		sessions := service.NewSessionService(repo).WithClock(func() time.Time { return now })

		// Act
		session, err := sessions.Load(context.Background())

		// Assert
		require.NoError(t, err)
		assert.Empty(t, session.Token)
		assert.False(t, sessions.LoggedIn())
	})

	t.Run("Malformed balance is ignored", func(t *testing.T) {
		repo := mocks.NewSessionRepository(map[string]string{
			"token":    "opaque-token",
			"username": "crio.do",
			"balance":  "lots",
		})

		session, err := service.NewSessionService(repo).Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, float64(0), session.Balance)
		assert.Equal(t, "opaque-token", session.Token)
	})

	t.Run("Store failure", func(t *testing.T) {
		repo := mocks.NewSessionRepository(nil)
		repo.GetErr = errors.New("disk on fire")

		_, err := service.NewSessionService(repo).Load(context.Background())

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeStorage))
	})
}

func TestSessionService_SaveAndClear(t *testing.T) {
	// Arrange
	repo := mocks.NewSessionRepository(nil)
	sessions := service.NewSessionService(repo)
	ctx := context.Background()

	// Act
	err := sessions.Save(ctx, models.Session{Username: "crio.do", Token: "tok", Balance: 4999.5})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"token":    "tok",
		"username": "crio.do",
		"balance":  "4999.5",
	}, repo.Values())
	assert.Equal(t, "crio.do", sessions.Current().Username)

	require.NoError(t, sessions.Clear(ctx))
	assert.Empty(t, repo.Values())
	assert.Equal(t, models.Session{}, sessions.Current())
}

func TestSessionService_CurrentExpires(t *testing.T) {
	// Arrange
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	sessions := service.NewSessionService(mocks.NewSessionRepository(nil)).
		WithClock(func() time.Time { return clock })
	token := signedToken(t, now.Add(time.Hour))
	require.NoError(t, sessions.Save(context.Background(), models.Session{Username: "crio.do", Token: token}))
	assert.True(t, sessions.LoggedIn())

	// Act
	clock = now.Add(2 * time.Hour)

	// Assert
	assert.False(t, sessions.LoggedIn())
}

func TestSessionService_SaveFailure(t *testing.T) {
	repo := mocks.NewSessionRepository(nil)
	repo.SetErr = errors.New("read-only")
	sessions := service.NewSessionService(repo)

	err := sessions.Save(context.Background(), models.Session{Username: "crio.do", Token: "tok"})

	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeStorage))
	assert.False(t, sessions.LoggedIn())
}

func TestSessionService_ClearFailure(t *testing.T) {
	// Arrange
	repo := mocks.NewSessionRepository(nil)
	sessions := service.NewSessionService(repo)
	require.NoError(t, sessions.Save(context.Background(), models.Session{Username: "crio.do", Token: "tok"}))
	repo.ClearErr = errors.New("read-only")

	// Act
	err := sessions.Clear(context.Background())

	// Assert
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeStorage))
	assert.True(t, sessions.LoggedIn(), "session stays while it is still persisted")
	assert.Equal(t, "tok", repo.Values()["token"])
}
