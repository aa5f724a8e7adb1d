package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- Catalog ---

// Product is a catalog entry. Voice placeholders share the same shape.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Category    string  `json:"category,omitempty"`
	IsEssential bool    `json:"isEssential,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// MatchesQuery reports whether the name or brand contains q, ignoring case.
func (p Product) MatchesQuery(q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Brand), q)
}

// --- Coupons ---

type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Coupon is a discount rule looked up by Code.
type Coupon struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue *float64     `json:"discountValue"`
	MinPurchase   float64      `json:"minPurchase"`
	ExpiryDate    string       `json:"expiryDate"`
}

// ExpiresOn parses ExpiryDate as a calendar date in loc. Full RFC 3339
// timestamps are accepted and truncated to their date.
func (c Coupon) ExpiresOn(loc *time.Location) (time.Time, error) {
	if d, err := time.ParseInLocation("2006-01-02", c.ExpiryDate, loc); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, c.ExpiryDate)
	if err != nil {
		return time.Time{}, err
	}
	ts = ts.In(loc)
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc), nil
}

// Value returns the configured discount value, or 0 when absent.
func (c Coupon) Value() float64 {
	if c.DiscountValue == nil {
		return 0
	}
	return *c.DiscountValue
}

// --- Users ---

// BudgetEntry is one month of a user's budget history.
type BudgetEntry struct {
	Month  string  `json:"month"`
	Budget float64 `json:"budget"`
	Spent  float64 `json:"spent"`
}

// UserBudget holds the read-only budget history for a user.
type UserBudget struct {
	UserID        string        `json:"userId"`
	Name          string        `json:"name,omitempty"`
	BudgetHistory []BudgetEntry `json:"budgetHistory"`
}

// --- Sessions ---

// SessionClaims identifies a shopper session. It is not a login.
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// --- Requests ---

type AddItemRequest struct {
	ProductID string   `json:"productId"`
	Product   *Product `json:"product,omitempty"`
}

type SetBudgetRequest struct {
	Amount float64 `json:"amount"`
}

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

type CouponQuoteRequest struct {
	Code      string  `json:"code"`
	CartTotal float64 `json:"cartTotal"`
}

type TranscriptRequest struct {
	Transcript string `json:"transcript"`
}
