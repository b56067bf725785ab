package repository_test

import (
	"encoding/json"
	"net/http"
	"testing"

	appErrors "github.com/aaravmahajanofficial/qkart-storefront/internal/errors"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/qkart-storefront/internal/repositories"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Register(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		fake, backend := setupBackend(t)
		fake.Handle("POST /auth/register", testutils.JSON(http.StatusCreated, models.RegisterResponse{Success: true}))
		repo := repository.NewUserRepo(backend)

		// Act
		res, err := repo.Register(ctx, &models.RegisterPayload{Username: "crio.do", Password: "learnbydoing"})

		// Assert
		require.NoError(t, err)
		assert.True(t, res.Success)

		requests := fake.Requests()
		require.Len(t, requests, 1)
		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(requests[0].Body), &body))
		assert.Equal(t, map[string]any{"username": "crio.do", "password": "learnbydoing"}, body)
	})

	t.Run("Failure - Username Taken", func(t *testing.T) {
		// Arrange
		fake, backend := setupBackend(t)
		fake.Handle("POST /auth/register", testutils.JSON(http.StatusBadRequest, models.RegisterResponse{Success: false, Message: "Username is already taken"}))
		repo := repository.NewUserRepo(backend)

		// Act
		res, err := repo.Register(ctx, &models.RegisterPayload{Username: "crio.do", Password: "learnbydoing"})

		// Assert
		assert.Nil(t, res)
		assert.Equal(t, "Username is already taken", appErrors.UserMessage(err, appErrors.MsgBackendUnavailable))
	})

	t.Run("Failure - Success Flag Missing", func(t *testing.T) {
		// Arrange
		fake, backend := setupBackend(t)
		fake.Handle("POST /auth/register", testutils.JSON(http.StatusOK, map[string]any{}))
		repo := repository.NewUserRepo(backend)

		// Act
		res, err := repo.Register(ctx, &models.RegisterPayload{Username: "crio.do", Password: "learnbydoing"})

		// Assert
		assert.Nil(t, res)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBackend))
		assert.Equal(t, appErrors.MsgBackendUnavailable, appErrors.UserMessage(err, appErrors.MsgBackendUnavailable))
	})
}

func TestUserRepository_Login(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		fake, backend := setupBackend(t)
		fake.Handle("POST /auth/login", testutils.JSON(http.StatusCreated, models.LoginResponse{
			Success:  true,
			Token:    "testtoken",
			Username: "criodo",
			Balance:  5000,
		}))
		repo := repository.NewUserRepo(backend)

		// Act
		res, err := repo.Login(ctx, &models.LoginRequest{Username: "criodo", Password: "learnbydoing"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "testtoken", res.Token)
		assert.Equal(t, "criodo", res.Username)
		assert.Equal(t, float64(5000), res.Balance)
	})

	t.Run("Failure - Wrong Password", func(t *testing.T) {
		// Arrange
		fake, backend := setupBackend(t)
		fake.Handle("POST /auth/login", testutils.JSON(http.StatusBadRequest, models.LoginResponse{Success: false, Message: "Password is incorrect"}))
		repo := repository.NewUserRepo(backend)

		// Act
		res, err := repo.Login(ctx, &models.LoginRequest{Username: "criodo", Password: "wrongpass"})

		// Assert
		assert.Nil(t, res)
		assert.Equal(t, "Password is incorrect", appErrors.UserMessage(err, appErrors.MsgBackendUnavailable))
	})
}
