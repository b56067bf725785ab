package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetCart(ctx context.Context, token string) ([]models.CartEntry, error) {
	args := m.Called(ctx, token)

	entries, _ := args.Get(0).([]models.CartEntry)
	return entries, args.Error(1)
}

func (m *CartRepository) AddToCart(ctx context.Context, token string, req *models.AddToCartRequest) ([]models.CartEntry, error) {
	args := m.Called(ctx, token, req)

	entries, _ := args.Get(0).([]models.CartEntry)
	return entries, args.Error(1)
}
