package coupon

import "errors"

// ErrCouponNotFound covers both a coupon that never existed and one that
// has expired; callers cannot tell the two apart.
var ErrCouponNotFound = errors.New("coupon is invalid or expired")
