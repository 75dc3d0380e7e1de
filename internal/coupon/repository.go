package coupon

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetValidByName(ctx context.Context, name string) (*Coupon, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetValidByName(ctx context.Context, name string) (*Coupon, error) {
	query := `
	SELECT id, name, expire, discount
	FROM coupons
	WHERE name = $1 AND expire > NOW()
	`

	var c Coupon
	err := r.db.QueryRowContext(ctx, query, name).
		Scan(&c.ID, &c.Name, &c.Expire, &c.Discount)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}
