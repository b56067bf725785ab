package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, text string) ([]models.Product, error)
}

type productRepository struct {
	backend *Backend
}

func NewProductRepo(b *Backend) ProductRepository {
	return &productRepository{backend: b}
}

func (r *productRepository) ListProducts(ctx context.Context) ([]models.Product, error) {

	products := []models.Product{}

	if err := r.backend.call(ctx, http.MethodGet, "/products", nil, "", nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (r *productRepository) SearchProducts(ctx context.Context, text string) ([]models.Product, error) {

	products := []models.Product{}
	query := url.Values{"value": []string{text}}

	if err := r.backend.call(ctx, http.MethodGet, "/products/search", query, "", nil, &products); err != nil {
		return nil, fmt.Errorf("search products %q: %w", text, err)
	}

	return products, nil
}
