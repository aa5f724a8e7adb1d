// Package store provides the read-only catalog, coupon and user data the
// shopping assistant works against.
package store

import (
	"context"
	"strings"

	"smartcart/apperror"
	"smartcart/models"
)

type Catalog interface {
	List(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
}

type Coupons interface {
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	FindByCode(ctx context.Context, code string) (models.Coupon, error)
}

type Users interface {
	BudgetHistory(ctx context.Context, userID string) (models.UserBudget, error)
}

// FilterProducts keeps products whose name or brand contains query,
// ignoring case. An empty query keeps everything.
func FilterProducts(products []models.Product, query string) []models.Product {
	query = strings.TrimSpace(query)
	if query == "" {
		return products
	}
	filtered := make([]models.Product, 0)
	for _, p := range products {
		if p.MatchesQuery(query) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func findProduct(products []models.Product, id string) (models.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, apperror.NotFound("Product not found")
}

func findCoupon(coupons []models.Coupon, code string) (models.Coupon, error) {
	code = strings.TrimSpace(code)
	for _, c := range coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return models.Coupon{}, apperror.NotFound("Coupon not found")
}
