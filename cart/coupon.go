package cart

import (
	"fmt"
	"time"

	"smartcart/apperror"
	"smartcart/models"
)

// Reason is the machine-readable cause of a coupon rejection.
type Reason string

const (
	ReasonEmptyCart            Reason = "EMPTY_CART"
	ReasonBelowMinimumPurchase Reason = "BELOW_MINIMUM_PURCHASE"
	ReasonExpired              Reason = "EXPIRED"
	ReasonNoDiscountConfigured Reason = "NO_DISCOUNT_CONFIGURED"
)

// Rejection is returned when a coupon cannot be applied to a subtotal.
// It unwraps to a validation failure.
type Rejection struct {
	Code    string
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func (r *Rejection) Unwrap() error {
	return apperror.Validation("%s", r.Message)
}

// Evaluation is the outcome of a coupon that passed every rule.
type Evaluation struct {
	Discount float64
	// Fallback is set when the discount type was neither fixed nor
	// percentage and the value was used as a flat amount.
	Fallback bool
}

// Evaluate checks coupon against subtotal as of now. Rules run in a fixed
// order and the first failing rule decides the rejection reason.
func Evaluate(coupon models.Coupon, subtotal float64, now time.Time) (Evaluation, error) {
	reject := func(reason Reason, format string, args ...interface{}) (Evaluation, error) {
		return Evaluation{}, &Rejection{Code: coupon.Code, Reason: reason, Message: fmt.Sprintf(format, args...)}
	}

	if subtotal == 0 {
		return reject(ReasonEmptyCart, "Add items to cart before applying coupons")
	}
	if subtotal < coupon.MinPurchase {
		return reject(ReasonBelowMinimumPurchase, "Minimum purchase of %.2f required for this coupon", coupon.MinPurchase)
	}
	if isExpired(coupon, now) {
		return reject(ReasonExpired, "This coupon has expired")
	}

	value := coupon.Value()
	if value <= 0 {
		return reject(ReasonNoDiscountConfigured, "This coupon has no discount configured")
	}

	switch coupon.DiscountType {
	case models.DiscountFixed:
		if value > subtotal {
			value = subtotal
		}
		return Evaluation{Discount: value}, nil
	case models.DiscountPercentage:
		return Evaluation{Discount: subtotal * value / 100}, nil
	default:
		return Evaluation{Discount: value, Fallback: true}, nil
	}
}

// isExpired compares calendar dates in now's location, so a coupon is
// still valid on its expiry day. An unreadable date counts as expired.
func isExpired(coupon models.Coupon, now time.Time) bool {
	expiry, err := coupon.ExpiresOn(now.Location())
	if err != nil {
		return true
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return expiry.Before(today)
}
