package cart

import (
	"context"
	"database/sql"
	"errors"

	"tajer-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByUser(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID, productID, color string, price float64) (*Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*Cart, error)
	SetDiscountTotal(ctx context.Context, userID string, total float64) (*Cart, error)
	Clear(ctx context.Context, userID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const cartByUserQuery = `
	SELECT id, user_id, total_cart_price, total_price_after_discount, created_at, updated_at
	FROM carts
	WHERE user_id = $1
`

// fetchCart loads a cart and its items; nil when the user has no cart.
func fetchCart(ctx context.Context, q querier, userID string) (*Cart, error) {
	var c Cart
	err := q.QueryRowContext(ctx, cartByUserQuery, userID).
		Scan(&c.ID, &c.UserID, &c.TotalCartPrice, &c.TotalPriceAfterDiscount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
	SELECT id, cart_id, product_id, color, quantity, price
	FROM cart_items
	WHERE cart_id = $1
	ORDER BY created_at
	`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Color, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &c, nil
}

// recomputeTotals rewrites the cached cart total from the item rows and
// clears any applied discount, inside the caller's transaction. No reader
// ever observes a total that is stale relative to the items.
func recomputeTotals(ctx context.Context, tx *sql.Tx, cartID string) error {
	_, err := tx.ExecContext(ctx, `
	UPDATE carts
	SET total_cart_price = COALESCE(
	        (SELECT ROUND(SUM(quantity * price)::numeric, 2) FROM cart_items WHERE cart_id = $1), 0),
	    total_price_after_discount = NULL,
	    updated_at = NOW()
	WHERE id = $1
	`, cartID)
	return err
}

func (r *repository) GetByUser(ctx context.Context, userID string) (*Cart, error) {
	return fetchCart(ctx, r.db, userID)
}

func (r *repository) AddItem(ctx context.Context, userID, productID, color string, price float64) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "AddItem"),
		zap.String("user_id", userID),
		zap.String("product_id", productID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Create the cart on first add. ON CONFLICT keeps one cart per user
	// even when two first-adds race.
	var cartID string
	err = tx.QueryRowContext(ctx, `
	INSERT INTO carts (user_id)
	VALUES ($1)
	ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
	RETURNING id
	`, userID).Scan(&cartID)
	if err != nil {
		log.Error("failed to upsert cart", zap.Error(err))
		return nil, err
	}

	// Same product+color increments quantity instead of duplicating.
	_, err = tx.ExecContext(ctx, `
	INSERT INTO cart_items (cart_id, product_id, color, quantity, price)
	VALUES ($1, $2, $3, 1, $4)
	ON CONFLICT (cart_id, product_id, color)
	DO UPDATE SET quantity = cart_items.quantity + 1
	`, cartID, productID, color, price)
	if err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return nil, err
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return nil, err
	}

	c, err := fetchCart(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("cart item added", zap.String("cart_id", cartID))
	return c, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*Cart, error) {
	return r.mutateItem(ctx, userID, itemID, func(tx *sql.Tx, cartID string) (int64, error) {
		res, err := tx.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $1
		WHERE id = $2 AND cart_id = $3
		`, quantity, itemID, cartID)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}

func (r *repository) RemoveItem(ctx context.Context, userID, itemID string) (*Cart, error) {
	return r.mutateItem(ctx, userID, itemID, func(tx *sql.Tx, cartID string) (int64, error) {
		res, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE id = $1 AND cart_id = $2
		`, itemID, cartID)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}

// mutateItem runs an item-level write scoped to the owning user's cart,
// then recomputes the cached totals in the same transaction.
func (r *repository) mutateItem(
	ctx context.Context,
	userID, itemID string,
	mutate func(tx *sql.Tx, cartID string) (int64, error),
) (*Cart, error) {

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var cartID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	affected, err := mutate(tx, cartID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrItemNotFound
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return nil, err
	}

	c, err := fetchCart(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *repository) SetDiscountTotal(ctx context.Context, userID string, total float64) (*Cart, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE carts
	SET total_price_after_discount = $1, updated_at = NOW()
	WHERE user_id = $2
	`, total, userID)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCartNotFound
	}

	return fetchCart(ctx, r.db, userID)
}

func (r *repository) Clear(ctx context.Context, userID string) error {
	// Idempotent: clearing an absent cart is not an error.
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}
