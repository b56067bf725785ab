package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)

	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *ProductRepository) SearchProducts(ctx context.Context, text string) ([]models.Product, error) {
	args := m.Called(ctx, text)

	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}
