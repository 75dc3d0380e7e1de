package coupon

import "time"

type Coupon struct {
	ID       string
	Name     string
	Expire   time.Time
	Discount float64
}
