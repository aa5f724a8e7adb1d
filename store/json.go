package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"smartcart/apperror"
	"smartcart/models"
)

const (
	productsFile = "products.json"
	couponsFile  = "coupons.json"
	usersFile    = "users.json"
)

// JSONStore reads catalog data from JSON files in a directory. Files are
// read on every call so edits show up without a restart.
type JSONStore struct {
	dir string
}

func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

func (s *JSONStore) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.readFile(productsFile, &products, "Failed to read products data"); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *JSONStore) Search(ctx context.Context, query string) ([]models.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, query), nil
}

func (s *JSONStore) Get(ctx context.Context, id string) (models.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return models.Product{}, err
	}
	return findProduct(products, id)
}

func (s *JSONStore) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := s.readFile(couponsFile, &coupons, "Failed to read coupons data"); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (s *JSONStore) FindByCode(ctx context.Context, code string) (models.Coupon, error) {
	coupons, err := s.ListCoupons(ctx)
	if err != nil {
		return models.Coupon{}, err
	}
	return findCoupon(coupons, code)
}

func (s *JSONStore) BudgetHistory(ctx context.Context, userID string) (models.UserBudget, error) {
	var users []models.UserBudget
	if err := s.readFile(usersFile, &users, "Failed to read users data"); err != nil {
		return models.UserBudget{}, err
	}
	for _, u := range users {
		if u.UserID == userID {
			if u.BudgetHistory == nil {
				u.BudgetHistory = []models.BudgetEntry{}
			}
			return u, nil
		}
	}
	return models.UserBudget{}, apperror.NotFound("User not found")
}

func (s *JSONStore) readFile(name string, dst interface{}, message string) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return apperror.DataUnavailable(message, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperror.DataUnavailable(message, fmt.Errorf("decode %s: %w", name, err))
	}
	return nil
}
