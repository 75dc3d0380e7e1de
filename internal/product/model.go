package product

import "time"

// Product carries the slice of the catalog the checkout core needs:
// the live price for cart snapshots and the shared stock counters.
// Catalog CRUD itself lives elsewhere.
type Product struct {
	ID        string
	Name      string
	Price     float64
	Quantity  int
	Sold      int
	CreatedAt time.Time
	UpdatedAt time.Time
}
