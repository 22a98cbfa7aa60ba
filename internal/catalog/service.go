package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/cache"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/repository"
)

var ErrInvalidProduct = errors.New("invalid product")

// Service fronts the product repository with a read-through cache.
type Service struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // prevents cache stampede on hot reads
}

func NewService(repo repository.ProductRepository, productCache cache.ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: productCache,
	}
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do("product:"+id, func() (interface{}, error) {
		p, err := s.cache.GetProduct(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		p, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.SetProduct(context.Background(), p); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	key := fmt.Sprintf("active:%d:%d", limit, offset)

	v, err, _ := s.sfg.Do("listing:"+key, func() (interface{}, error) {
		products, err := s.cache.GetListing(ctx, key)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		products, errList := s.repo.ListProducts(ctx, true, limit, offset)
		if errList != nil {
			return nil, errList
		}

		go func() {
			if errSet := s.cache.SetListing(context.Background(), key, products); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Product), nil
}

// ListAll bypasses the cache; it serves the admin dashboard only.
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx, false, limit, offset)
}

func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.ProductStatusDraft
	}
	p.Price = domain.Round2(p.Price)

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidateCache(p.ID)
	return nil
}

func (s *Service) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	p.Price = domain.Round2(p.Price)

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidateCache(p.ID)
	return nil
}

func validateProduct(p *domain.Product) error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidProduct)
	}
	if p.SKU == "" {
		return fmt.Errorf("%w: sku is required", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if p.Status != "" && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidProduct, p.Status)
	}
	return nil
}

func (s *Service) invalidateCache(productID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
