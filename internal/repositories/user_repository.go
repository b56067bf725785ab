package repository

import (
	"context"
	"fmt"
	"net/http"

	appErrors "github.com/aaravmahajanofficial/qkart-storefront/internal/errors"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
)

type UserRepository interface {
	Register(ctx context.Context, req *models.RegisterPayload) (*models.RegisterResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

type userRepository struct {
	backend *Backend
}

func NewUserRepo(b *Backend) UserRepository {
	return &userRepository{backend: b}
}

func (r *userRepository) Register(ctx context.Context, req *models.RegisterPayload) (*models.RegisterResponse, error) {

	res := &models.RegisterResponse{}

	if err := r.backend.call(ctx, http.MethodPost, "/auth/register", nil, "", req, res); err != nil {
		return nil, fmt.Errorf("register %s: %w", req.Username, err)
	}

	// a 2xx without the explicit flag is still a refusal
	if !res.Success {
		return nil, appErrors.BackendError(res.Message, http.StatusOK).WithDetail("registration not confirmed by backend")
	}

	return res, nil
}

func (r *userRepository) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	res := &models.LoginResponse{}

	if err := r.backend.call(ctx, http.MethodPost, "/auth/login", nil, "", req, res); err != nil {
		return nil, fmt.Errorf("login %s: %w", req.Username, err)
	}

	if !res.Success || res.Token == "" {
		return nil, appErrors.BackendError(res.Message, http.StatusOK).WithDetail("login not confirmed by backend")
	}

	return res, nil
}
