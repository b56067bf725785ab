package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Register(ctx context.Context, req *models.RegisterPayload) (*models.RegisterResponse, error) {
	args := m.Called(ctx, req)

	res, _ := args.Get(0).(*models.RegisterResponse)
	return res, args.Error(1)
}

func (m *UserRepository) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)

	res, _ := args.Get(0).(*models.LoginResponse)
	return res, args.Error(1)
}
