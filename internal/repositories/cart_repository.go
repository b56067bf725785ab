package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
)

type CartRepository interface {
	GetCart(ctx context.Context, token string) ([]models.CartEntry, error)
	AddToCart(ctx context.Context, token string, req *models.AddToCartRequest) ([]models.CartEntry, error)
}

type cartRepository struct {
	backend *Backend
}

func NewCartRepo(b *Backend) CartRepository {
	return &cartRepository{backend: b}
}

func (r *cartRepository) GetCart(ctx context.Context, token string) ([]models.CartEntry, error) {

	entries := []models.CartEntry{}

	if err := r.backend.call(ctx, http.MethodGet, "/cart", nil, token, nil, &entries); err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return entries, nil
}

// AddToCart sets the quantity of a product; the backend answers with the
// whole updated cart.
func (r *cartRepository) AddToCart(ctx context.Context, token string, req *models.AddToCartRequest) ([]models.CartEntry, error) {

	entries := []models.CartEntry{}

	if err := r.backend.call(ctx, http.MethodPost, "/cart", nil, token, req, &entries); err != nil {
		return nil, fmt.Errorf("add product %s to cart: %w", req.ProductID, err)
	}

	return entries, nil
}
