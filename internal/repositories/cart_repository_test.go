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

func TestCartRepository_GetCart(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Bearer Token Sent", func(t *testing.T) {
		// Arrange
		fake, backend := setupBackend(t)
		entries := []models.CartEntry{{ProductID: "a", Quantity: 2}}
		fake.Handle("GET /cart", testutils.JSON(http.StatusOK, entries))
		repo := repository.NewCartRepo(backend)

		// Act
		got, err := repo.GetCart(ctx, "token-123")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, entries, got)
		requests := fake.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "Bearer token-123", requests[0].Authorization)
	})

	t.Run("Failure - Bad Request Message", func(t *testing.T) {
		// Arrange
		fake, backend := setupBackend(t)
		fake.Handle("GET /cart", testutils.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Protected route, Oauth2 Bearer token not found"}))
		repo := repository.NewCartRepo(backend)

		// Act
		_, err := repo.GetCart(ctx, "token-123")

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
		assert.Equal(t, "Protected route, Oauth2 Bearer token not found", appErr.Message)
	})
}

func TestCartRepository_AddToCart(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Body Shape", func(t *testing.T) {
		// Arrange
		fake, backend := setupBackend(t)
		updated := []models.CartEntry{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 3}}
		fake.Handle("POST /cart", testutils.JSON(http.StatusOK, updated))
		repo := repository.NewCartRepo(backend)

		// Act
		got, err := repo.AddToCart(ctx, "token-123", &models.AddToCartRequest{ProductID: "b", Quantity: 3})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		requests := fake.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "Bearer token-123", requests[0].Authorization)

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(requests[0].Body), &body))
		assert.Equal(t, map[string]any{"productId": "b", "qty": float64(3)}, body)
	})

	t.Run("Failure - Server Message", func(t *testing.T) {
		// Arrange
		fake, backend := setupBackend(t)
		fake.Handle("POST /cart", testutils.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Product doesn't exist"}))
		repo := repository.NewCartRepo(backend)

		// Act
		got, err := repo.AddToCart(ctx, "token-123", &models.AddToCartRequest{ProductID: "zzz", Quantity: 1})

		// Assert
		assert.Nil(t, got)
		assert.Equal(t, "Product doesn't exist", appErrors.UserMessage(err, appErrors.MsgProductsUnavailable))
	})
}
