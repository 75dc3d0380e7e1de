package inventory

import (
	"context"
	"database/sql"
	"errors"

	"tajer-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrInsufficientStock means at least one line would drive a product's
// quantity below zero. The whole batch is refused.
var ErrInsufficientStock = errors.New("insufficient stock")

// Delta is one stock movement: quantity down, sold up.
type Delta struct {
	ProductID string
	Quantity  int
}

// Adjuster is the only writer of product stock counters at checkout time.
type Adjuster interface {
	// ApplyTx decrements quantity and increments sold for every delta
	// inside the caller's transaction, all lines or none. The sufficiency
	// check runs inside the UPDATE itself, so two concurrent checkouts of
	// the last unit cannot both pass.
	ApplyTx(ctx context.Context, tx *sql.Tx, deltas []Delta) error

	// Restock reverses deltas, used by reconciliation after a compensated
	// fulfillment.
	Restock(ctx context.Context, deltas []Delta) error
}

type adjuster struct {
	db *sql.DB
}

func NewAdjuster(db *sql.DB) Adjuster {
	return &adjuster{db: db}
}

const applyQuery = `
	UPDATE products AS p
	SET quantity = p.quantity - d.qty,
	    sold = p.sold + d.qty,
	    updated_at = NOW()
	FROM (SELECT unnest($1::uuid[]) AS id, unnest($2::int[]) AS qty) AS d
	WHERE p.id = d.id AND p.quantity >= d.qty
`

func (a *adjuster) ApplyTx(ctx context.Context, tx *sql.Tx, deltas []Delta) error {
	if len(deltas) == 0 {
		return nil
	}

	ids, qtys := mergeDeltas(deltas)

	res, err := tx.ExecContext(ctx, applyQuery, pq.Array(ids), pq.Array(qtys))
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	// A product with not enough stock (or an unknown product) does not
	// match the WHERE clause; the caller must roll back.
	if affected != int64(len(ids)) {
		logger.FromCtx(ctx).Warn("stock adjustment refused",
			zap.Int("requested_products", len(ids)),
			zap.Int64("adjusted_products", affected),
		)
		return ErrInsufficientStock
	}

	return nil
}

func (a *adjuster) Restock(ctx context.Context, deltas []Delta) error {
	if len(deltas) == 0 {
		return nil
	}

	ids, qtys := mergeDeltas(deltas)

	_, err := a.db.ExecContext(ctx, `
	UPDATE products AS p
	SET quantity = p.quantity + d.qty,
	    sold = p.sold - d.qty,
	    updated_at = NOW()
	FROM (SELECT unnest($1::uuid[]) AS id, unnest($2::int[]) AS qty) AS d
	WHERE p.id = d.id
	`, pq.Array(ids), pq.Array(qtys))

	return err
}

// mergeDeltas sums quantities per product, keeping first-seen order.
// The same product can appear on several lines (one per color), but
// UPDATE ... FROM joins at most one source row per target row, so each
// product must go to the database exactly once.
func mergeDeltas(deltas []Delta) ([]string, []int64) {
	ids := make([]string, 0, len(deltas))
	totals := make(map[string]int64, len(deltas))
	for _, d := range deltas {
		if _, seen := totals[d.ProductID]; !seen {
			ids = append(ids, d.ProductID)
		}
		totals[d.ProductID] += int64(d.Quantity)
	}

	qtys := make([]int64, 0, len(ids))
	for _, id := range ids {
		qtys = append(qtys, totals[id])
	}
	return ids, qtys
}
