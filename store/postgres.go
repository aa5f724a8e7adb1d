package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"smartcart/apperror"
	"smartcart/models"
)

const productColumns = `id, name, brand, price, unit, category, is_essential, image_url`

// PostgresStore serves the same read-only data from PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY sort_order, id`)
}

func (s *PostgresStore) Search(ctx context.Context, query string) ([]models.Product, error) {
	if query == "" {
		return s.List(ctx)
	}
	return s.queryProducts(ctx, `
        SELECT `+productColumns+`
        FROM products
        WHERE position(lower($1) in lower(name)) > 0
           OR position(lower($1) in lower(brand)) > 0
        ORDER BY sort_order, id
    `, query)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.Product, error) {
	row := s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, apperror.NotFound("Product not found")
	}
	if err != nil {
		return models.Product{}, apperror.DataUnavailable("Failed to read products data", err)
	}
	return p, nil
}

func (s *PostgresStore) queryProducts(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.DataUnavailable("Failed to read products data", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperror.DataUnavailable("Failed to read products data", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.DataUnavailable("Failed to read products data", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	var category, imageURL *string
	if err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Price, &p.Unit, &category, &p.IsEssential, &imageURL); err != nil {
		return models.Product{}, err
	}
	if category != nil {
		p.Category = *category
	}
	if imageURL != nil {
		p.ImageURL = *imageURL
	}
	return p, nil
}

const couponColumns = `id, code, description, discount_type, discount_value, min_purchase, expiry_date`

func (s *PostgresStore) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	rows, err := s.db.Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY expiry_date, code`)
	if err != nil {
		return nil, apperror.DataUnavailable("Failed to read coupons data", err)
	}
	defer rows.Close()

	coupons := make([]models.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, apperror.DataUnavailable("Failed to read coupons data", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.DataUnavailable("Failed to read coupons data", err)
	}
	return coupons, nil
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (models.Coupon, error) {
	row := s.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code)
	c, err := scanCoupon(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Coupon{}, apperror.NotFound("Coupon not found")
	}
	if err != nil {
		return models.Coupon{}, apperror.DataUnavailable("Failed to read coupons data", err)
	}
	return c, nil
}

func scanCoupon(row pgx.Row) (models.Coupon, error) {
	var c models.Coupon
	var discountType string
	var expiry time.Time
	if err := row.Scan(&c.ID, &c.Code, &c.Description, &discountType, &c.DiscountValue, &c.MinPurchase, &expiry); err != nil {
		return models.Coupon{}, err
	}
	c.DiscountType = models.DiscountType(discountType)
	c.ExpiryDate = expiry.Format("2006-01-02")
	return c, nil
}

func (s *PostgresStore) BudgetHistory(ctx context.Context, userID string) (models.UserBudget, error) {
	u := models.UserBudget{UserID: userID, BudgetHistory: []models.BudgetEntry{}}

	err := s.db.QueryRow(ctx, `SELECT name FROM users WHERE user_id = $1`, userID).Scan(&u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.UserBudget{}, apperror.NotFound("User not found")
	}
	if err != nil {
		return models.UserBudget{}, apperror.DataUnavailable("Failed to read users data", err)
	}

	rows, err := s.db.Query(ctx, `
        SELECT month, budget, spent
        FROM budget_history
        WHERE user_id = $1
        ORDER BY month
    `, userID)
	if err != nil {
		return models.UserBudget{}, apperror.DataUnavailable("Failed to read users data", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.BudgetEntry
		if err := rows.Scan(&e.Month, &e.Budget, &e.Spent); err != nil {
			return models.UserBudget{}, apperror.DataUnavailable("Failed to read users data", err)
		}
		u.BudgetHistory = append(u.BudgetHistory, e)
	}
	if err := rows.Err(); err != nil {
		return models.UserBudget{}, apperror.DataUnavailable("Failed to read users data", err)
	}
	return u, nil
}
