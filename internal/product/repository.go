package product

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := `
	SELECT id, name, price, quantity, sold, created_at, updated_at
	FROM products
	WHERE id = $1
	`

	var p Product
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Sold, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
