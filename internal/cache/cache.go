package cache

import (
	"context"
	"errors"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
)

type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, p *domain.Product) error
	GetListing(ctx context.Context, key string) ([]*domain.Product, error)
	SetListing(ctx context.Context, key string, products []*domain.Product) error
	Invalidate(ctx context.Context, productID string) error
}

var ErrCacheMiss = errors.New("cache miss")
