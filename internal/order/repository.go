package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tajer-be/internal/inventory"
	"tajer-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx persists the order snapshot, adjusts stock and deletes
	// the cart in ONE transaction. When eventID is set it is consumed
	// atomically first; a duplicate id aborts with ErrDuplicateEvent and
	// leaves no side effects.
	CreateOrderTx(ctx context.Context, o *Order, eventID string) error

	GetByID(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context, userID string, all bool) ([]*Order, error)

	MarkPaid(ctx context.Context, orderID string, at time.Time) (*Order, error)
	MarkDelivered(ctx context.Context, orderID string, at time.Time) (*Order, error)
}

type repository struct {
	db       *sql.DB
	adjuster inventory.Adjuster
}

func NewRepository(db *sql.DB, adjuster inventory.Adjuster) Repository {
	return &repository{db: db, adjuster: adjuster}
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order, eventID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback order transaction", zap.Error(rbErr))
			}
		}
	}()

	// Webhook dedup: check-and-insert inside the same transaction as the
	// side effects. If fulfillment fails the insert rolls back too, so the
	// provider's retry can still succeed.
	if eventID != "" {
		res, err := tx.ExecContext(ctx, `
		INSERT INTO webhook_events (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING
		`, eventID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			log.Info("duplicate payment event ignored", zap.String("event_id", eventID))
			return ErrDuplicateEvent
		}
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO orders (
		id, user_id, session_id,
		ship_details, ship_city, ship_phone, ship_postal_code,
		tax_price, shipping_price, total_order_price,
		payment_method, is_paid, paid_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		o.ID, o.UserID, o.SessionID,
		o.ShippingAddress.Details, o.ShippingAddress.City,
		o.ShippingAddress.Phone, o.ShippingAddress.PostalCode,
		o.TaxPrice, o.ShippingPrice, o.TotalOrderPrice,
		o.PaymentMethod, o.IsPaid, o.PaidAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	deltas := make([]inventory.Delta, 0, len(o.Items))
	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, color, quantity, price)
		VALUES ($1,$2,$3,$4,$5,$6)
		`, item.ID, o.ID, item.ProductID, item.Color, item.Quantity, item.Price)
		if err != nil {
			log.Error("failed to insert order item",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
		deltas = append(deltas, inventory.Delta{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	// Conditional batch decrement. Insufficient stock aborts the whole
	// transaction: no order, intact cart.
	if err := r.adjuster.ApplyTx(ctx, tx, deltas); err != nil {
		return err
	}

	// Cart clearing rides in the same transaction, so a crash anywhere in
	// this function leaves either everything or nothing.
	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, o.UserID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	committed = true
	log.Info("order fulfillment committed",
		zap.Float64("total", o.TotalOrderPrice),
		zap.Int("items", len(o.Items)),
	)

	return nil
}

const orderColumns = `
	id, user_id, session_id,
	ship_details, ship_city, ship_phone, ship_postal_code,
	tax_price, shipping_price, total_order_price,
	payment_method, is_paid, paid_at, is_delivered, delivered_at,
	created_at, updated_at
`

func scanOrder(row interface{ Scan(dest ...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.SessionID,
		&o.ShippingAddress.Details, &o.ShippingAddress.City,
		&o.ShippingAddress.Phone, &o.ShippingAddress.PostalCode,
		&o.TaxPrice, &o.ShippingPrice, &o.TotalOrderPrice,
		&o.PaymentMethod, &o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT id, order_id, product_id, color, quantity, price
	FROM order_items
	WHERE order_id = $1
	`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Color, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) List(ctx context.Context, userID string, all bool) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if !all {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// MarkPaid is a one-way transition: the conditional update only fires
// when the order is unpaid, so re-invocation is a no-op.
func (r *repository) MarkPaid(ctx context.Context, orderID string, at time.Time) (*Order, error) {
	_, err := r.db.ExecContext(ctx, `
	UPDATE orders
	SET is_paid = TRUE, paid_at = $2, updated_at = NOW()
	WHERE id = $1 AND NOT is_paid
	`, orderID, at)
	if err != nil {
		return nil, err
	}

	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// MarkDelivered requires the order to be paid; an undelivered unpaid
// order is rejected, an already-delivered one is a no-op.
func (r *repository) MarkDelivered(ctx context.Context, orderID string, at time.Time) (*Order, error) {
	_, err := r.db.ExecContext(ctx, `
	UPDATE orders
	SET is_delivered = TRUE, delivered_at = $2, updated_at = NOW()
	WHERE id = $1 AND NOT is_delivered AND is_paid
	`, orderID, at)
	if err != nil {
		return nil, err
	}

	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if !o.IsDelivered && !o.IsPaid {
		return nil, ErrOrderNotPaid
	}
	return o, nil
}
