package cart

import (
	"time"

	"smartcart/models"
)

// Cart is a single shopper's working selection. It is not safe for
// concurrent use; callers serialise access (see session.Registry).
type Cart struct {
	items    []models.Product
	ids      map[string]struct{}
	budget   float64
	coupon   *models.Coupon
	discount float64
	now      func() time.Time
}

type Option func(*Cart)

// WithClock overrides the clock used for coupon expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cart) {
		c.now = now
	}
}

// New returns an empty cart with no budget and no coupon.
func New(opts ...Option) *Cart {
	c := &Cart{
		ids: make(map[string]struct{}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddItem inserts p unless an item with the same ID is already present.
// It reports whether the cart changed.
func (c *Cart) AddItem(p models.Product) bool {
	if _, ok := c.ids[p.ID]; ok {
		return false
	}
	c.ids[p.ID] = struct{}{}
	c.items = append(c.items, p)
	c.reevaluateCoupon()
	return true
}

// RemoveItem drops the item with the given ID, if any.
func (c *Cart) RemoveItem(id string) bool {
	if _, ok := c.ids[id]; !ok {
		return false
	}
	delete(c.ids, id)
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.reevaluateCoupon()
	return true
}

// SetBudget replaces the budget. Zero means no budget.
func (c *Cart) SetBudget(amount float64) {
	c.budget = amount
}

// ApplyCoupon evaluates coupon against the current subtotal. On success the
// coupon and its discount are stored together; on rejection nothing changes.
func (c *Cart) ApplyCoupon(coupon models.Coupon) (Evaluation, error) {
	subtotal := c.Subtotal()
	eval, err := Evaluate(coupon, subtotal, c.now())
	if err != nil {
		return Evaluation{}, err
	}
	c.coupon = &coupon
	c.discount = clamp(eval.Discount, subtotal)
	return eval, nil
}

// ClearCoupon removes any applied coupon.
func (c *Cart) ClearCoupon() {
	c.coupon = nil
	c.discount = 0
}

// reevaluateCoupon keeps the applied coupon consistent with the subtotal
// after the item set changes. A coupon that no longer passes is dropped.
func (c *Cart) reevaluateCoupon() {
	if c.coupon == nil {
		return
	}
	subtotal := c.Subtotal()
	eval, err := Evaluate(*c.coupon, subtotal, c.now())
	if err != nil {
		c.ClearCoupon()
		return
	}
	c.discount = clamp(eval.Discount, subtotal)
}

func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Price
	}
	return total
}

// FinalTotal is the subtotal less the coupon discount, never negative.
func (c *Cart) FinalTotal() float64 {
	total := c.Subtotal() - c.discount
	if total < 0 {
		return 0
	}
	return total
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []models.Product {
	out := make([]models.Product, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Contains(id string) bool {
	_, ok := c.ids[id]
	return ok
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Budget() float64 {
	return c.budget
}

// Discount is the coupon discount currently applied, 0 without a coupon.
func (c *Cart) Discount() float64 {
	return c.discount
}

// AppliedCoupon returns a copy of the applied coupon, or nil.
func (c *Cart) AppliedCoupon() *models.Coupon {
	if c.coupon == nil {
		return nil
	}
	coupon := *c.coupon
	return &coupon
}

// Summary is a point-in-time view of a cart for display.
type Summary struct {
	Items         []models.Product `json:"items"`
	ItemCount     int              `json:"itemCount"`
	Subtotal      float64          `json:"subtotal"`
	Discount      float64          `json:"couponDiscount"`
	FinalTotal    float64          `json:"finalTotal"`
	Budget        float64          `json:"budget"`
	AppliedCoupon *models.Coupon   `json:"appliedCoupon"`
	BudgetStatus  BudgetStatus     `json:"budgetStatus"`
}

func (c *Cart) Summary() Summary {
	return Summary{
		Items:         c.Items(),
		ItemCount:     c.Len(),
		Subtotal:      c.Subtotal(),
		Discount:      c.discount,
		FinalTotal:    c.FinalTotal(),
		Budget:        c.budget,
		AppliedCoupon: c.AppliedCoupon(),
		BudgetStatus:  c.BudgetStatus(),
	}
}

func clamp(discount, subtotal float64) float64 {
	if discount > subtotal {
		return subtotal
	}
	if discount < 0 {
		return 0
	}
	return discount
}
