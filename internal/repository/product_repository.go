package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
)

const productColumns = `id, sku, title, description, price, status, category, era, condition, image_url, created_at, updated_at`

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.SKU,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Status,
		&p.Category,
		&p.Era,
		&p.Condition,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}

	return &p, nil
}

func (r *Repository) ListProducts(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []interface{}{}
	if activeOnly {
		query += ` WHERE status = $1`
		args = append(args, domain.ProductStatusActive)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.SKU,
			&p.Title,
			&p.Description,
			&p.Price,
			&p.Status,
			&p.Category,
			&p.Era,
			&p.Condition,
			&p.ImageURL,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, sku, title, description, price, status, category, era, condition, image_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.SKU,
		p.Title,
		p.Description,
		p.Price,
		p.Status,
		p.Category,
		p.Era,
		p.Condition,
		p.ImageURL)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products
	          SET sku = $2, title = $3, description = $4, price = $5, status = $6,
	              category = $7, era = $8, condition = $9, image_url = $10, updated_at = NOW()
	          WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.SKU,
		p.Title,
		p.Description,
		p.Price,
		p.Status,
		p.Category,
		p.Era,
		p.Condition,
		p.ImageURL)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
