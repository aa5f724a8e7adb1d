package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcart/models"
)

func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	var rejection *Rejection
	require.True(t, errors.As(err, &rejection), "expected *Rejection, got %v", err)
	return rejection.Reason
}

func TestEvaluateRuleOrder(t *testing.T) {
	expiredBelowMin := coupon(models.DiscountFixed, 0, 100)
	expiredBelowMin.ExpiryDate = "2020-01-01"

	tests := []struct {
		name     string
		coupon   models.Coupon
		subtotal float64
		want     Reason
	}{
		{"empty cart wins over everything", expiredBelowMin, 0, ReasonEmptyCart},
		{"minimum purchase checked before expiry", expiredBelowMin, 50, ReasonBelowMinimumPurchase},
		{"expiry checked before missing value", expiredBelowMin, 150, ReasonExpired},
		{"zero value", coupon(models.DiscountFixed, 0, 0), 150, ReasonNoDiscountConfigured},
		{"nil value", models.Coupon{Code: "NIL", DiscountType: models.DiscountPercentage, ExpiryDate: "2030-01-01"}, 150, ReasonNoDiscountConfigured},
		{"negative fixed value", coupon(models.DiscountFixed, -10, 0), 100, ReasonNoDiscountConfigured},
		{"negative percentage value", coupon(models.DiscountPercentage, -5, 0), 100, ReasonNoDiscountConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.coupon, tt.subtotal, fixedNow)
			assert.Equal(t, tt.want, reasonOf(t, err))
		})
	}
}

func TestEvaluateExpiredRegardlessOfSubtotal(t *testing.T) {
	expired := coupon(models.DiscountPercentage, 50, 0)
	expired.ExpiryDate = "2026-10-14"

	for _, subtotal := range []float64{1, 100, 1e6} {
		_, err := Evaluate(expired, subtotal, fixedNow)
		assert.Equal(t, ReasonExpired, reasonOf(t, err))
	}
}

func TestEvaluateValidOnExpiryDay(t *testing.T) {
	c := coupon(models.DiscountFixed, 5, 0)
	c.ExpiryDate = "2026-10-15"

	lateEvening := time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC)
	eval, err := Evaluate(c, 100, lateEvening)
	require.NoError(t, err)
	assert.InDelta(t, 5, eval.Discount, 1e-9)
}

func TestEvaluateAcceptsTimestampExpiry(t *testing.T) {
	c := coupon(models.DiscountFixed, 5, 0)
	c.ExpiryDate = "2026-10-15T08:00:00Z"

	_, err := Evaluate(c, 100, fixedNow)
	assert.NoError(t, err)
}

func TestEvaluateUnreadableExpiryIsRejected(t *testing.T) {
	c := coupon(models.DiscountFixed, 5, 0)
	c.ExpiryDate = "someday"

	_, err := Evaluate(c, 100, fixedNow)
	assert.Equal(t, ReasonExpired, reasonOf(t, err))
}

func TestEvaluateDiscounts(t *testing.T) {
	tests := []struct {
		name         string
		coupon       models.Coupon
		subtotal     float64
		wantDiscount float64
		wantFallback bool
	}{
		{"fixed under subtotal", coupon(models.DiscountFixed, 30, 0), 100, 30, false},
		{"fixed capped", coupon(models.DiscountFixed, 30, 0), 20, 20, false},
		{"percentage", coupon(models.DiscountPercentage, 10, 0), 200, 20, false},
		{"percentage uncapped", coupon(models.DiscountPercentage, 200, 0), 10, 20, false},
		{"unknown type is flat", coupon("bogo", 15, 0), 100, 15, true},
		{"unknown type is not capped here", coupon("", 150, 0), 100, 150, true},
		{"minimum met exactly", coupon(models.DiscountFixed, 10, 100), 100, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := Evaluate(tt.coupon, tt.subtotal, fixedNow)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantDiscount, eval.Discount, 1e-9)
			assert.Equal(t, tt.wantFallback, eval.Fallback)
		})
	}
}

func TestRejectionMessage(t *testing.T) {
	_, err := Evaluate(coupon(models.DiscountFixed, 10, 100), 50, fixedNow)
	require.Error(t, err)
	assert.Equal(t, "Minimum purchase of 100.00 required for this coupon", err.Error())
}
