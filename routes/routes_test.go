package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartcart/handlers"
	"smartcart/session"
	"smartcart/store"
	"smartcart/voice"
)

var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

type stubParser struct {
	parsed voice.ParsedTranscript
	err    error
	calls  int
}

func (s *stubParser) Parse(context.Context, string) (voice.ParsedTranscript, error) {
	s.calls++
	return s.parsed, s.err
}

type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Reason     string          `json:"reason"`
	Details    string          `json:"details"`
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
}

type testServer struct {
	t      *testing.T
	app    *fiber.App
	parser *stubParser
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clock := func() time.Time { return testNow }
	js := store.NewJSONStore("testdata")
	parser := &stubParser{}

	h := &handlers.Handler{
		Catalog:  js,
		Coupons:  js,
		Users:    js,
		Sessions: session.NewRegistry(time.Hour, session.WithClock(clock)),
		Tokens:   session.NewTokens("test-secret", time.Hour),
		Voice:    voice.NewResolver(parser, js, zap.NewNop(), time.Second),
		Logger:   zap.NewNop(),
		Now:      clock,
	}

	app := fiber.New()
	SetupRoutes(app, h)
	return &testServer{t: t, app: app, parser: parser}
}

func (s *testServer) do(method, path, body string) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) openSession() {
	s.t.Helper()
	status, env := s.do("POST", "/api/v1/sessions", "")
	require.Equal(s.t, http.StatusCreated, status)
	var data struct {
		SessionID string `json:"sessionId"`
		Token     string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(s.t, data.Token)
	s.token = data.Token
}

type cartView struct {
	Items []struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Brand string  `json:"brand"`
		Price float64 `json:"price"`
	} `json:"items"`
	ItemCount     int     `json:"itemCount"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"couponDiscount"`
	FinalTotal    float64 `json:"finalTotal"`
	Budget        float64 `json:"budget"`
	AppliedCoupon *struct {
		Code string `json:"code"`
	} `json:"appliedCoupon"`
	BudgetStatus struct {
		Level string `json:"level"`
	} `json:"budgetStatus"`
}

func decodeCart(t *testing.T, env envelope) cartView {
	t.Helper()
	var v cartView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do("GET", "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestListAndSearchProducts(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do("GET", "/api/v1/products", "")
	require.Equal(t, http.StatusOK, status)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 4)

	status, env = s.do("GET", "/api/v1/products?q=amul", "")
	require.Equal(t, http.StatusOK, status)
	var amul []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &amul))
	assert.Len(t, amul, 2)

	status, env = s.do("GET", "/api/v1/products?page=2&pageSize=3", "")
	require.Equal(t, http.StatusOK, status)
	var page []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 1)
	assert.Contains(t, string(env.Pagination), `"totalPages":2`)
}

func TestGetProductNotFound(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do("GET", "/api/v1/products/zzz", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "error", env.Status)
}

func TestCheaperAlternatives(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do("GET", "/api/v1/products/p3/alternatives", "")
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Alternatives []struct {
			Product struct {
				ID string `json:"id"`
			} `json:"product"`
			Savings float64 `json:"savings"`
		} `json:"alternatives"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Alternatives, 2)
	assert.Equal(t, "p1", data.Alternatives[0].Product.ID)
	assert.Equal(t, 40.0, data.Alternatives[0].Savings)
	assert.Equal(t, "p2", data.Alternatives[1].Product.ID)
}

func TestCouponQuote(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do("POST", "/api/v1/coupons/apply", `{"code": "SAVE10", "cartTotal": 200}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"code": "SAVE10", "discount": 20, "newTotal": 180}`, string(env.Data))

	status, env = s.do("POST", "/api/v1/coupons/apply", `{"code": "SAVE10", "cartTotal": 50}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "BELOW_MINIMUM_PURCHASE", env.Reason)

	status, env = s.do("POST", "/api/v1/coupons/apply", `{"code": "OLD50", "cartTotal": 500}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "EXPIRED", env.Reason)

	status, env = s.do("POST", "/api/v1/coupons/apply", `{"code": "BROKEN", "cartTotal": 100}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "NO_DISCOUNT_CONFIGURED", env.Reason)

	status, _ = s.do("POST", "/api/v1/coupons/apply", `{"code": "NOPE", "cartTotal": 500}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do("POST", "/api/v1/coupons/apply", `{"cartTotal": 500}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBudgetHistory(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do("GET", "/api/v1/budget/user1", "")
	require.Equal(t, http.StatusOK, status)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 2)

	status, _ = s.do("GET", "/api/v1/budget/ghost", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do("PUT", "/api/v1/budget/user1", `{"budget": 100}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestCartRequiresSession(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do("GET", "/api/v1/cart", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)
	s.openSession()

	status, env := s.do("POST", "/api/v1/cart/items", `{"productId": "p3"}`)
	require.Equal(t, http.StatusOK, status)
	status, env = s.do("POST", "/api/v1/cart/items", `{"productId": "p3"}`)
	require.Equal(t, http.StatusOK, status)
	status, env = s.do("POST", "/api/v1/cart/items", `{"productId": "p4"}`)
	require.Equal(t, http.StatusOK, status)

	c := decodeCart(t, env)
	assert.Equal(t, 2, c.ItemCount)
	assert.Equal(t, 150.0, c.Subtotal)

	status, env = s.do("PUT", "/api/v1/cart/budget", `{"amount": 140}`)
	require.Equal(t, http.StatusOK, status)
	c = decodeCart(t, env)
	assert.Equal(t, "over", c.BudgetStatus.Level)

	status, env = s.do("POST", "/api/v1/cart/coupon", `{"code": "SAVE10"}`)
	require.Equal(t, http.StatusOK, status)
	c = decodeCart(t, env)
	require.NotNil(t, c.AppliedCoupon)
	assert.Equal(t, "SAVE10", c.AppliedCoupon.Code)
	assert.InDelta(t, 15, c.Discount, 1e-9)
	assert.InDelta(t, 135, c.FinalTotal, 1e-9)
	assert.Equal(t, "caution", c.BudgetStatus.Level)

	status, env = s.do("DELETE", "/api/v1/cart/items/p3", "")
	require.Equal(t, http.StatusOK, status)
	c = decodeCart(t, env)
	assert.Nil(t, c.AppliedCoupon, "coupon below minimum must be dropped")
	assert.Zero(t, c.Discount)
	assert.Equal(t, 50.0, c.FinalTotal)

	status, env = s.do("POST", "/api/v1/cart/coupon", `{"code": "SAVE10"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "BELOW_MINIMUM_PURCHASE", env.Reason)

	status, env = s.do("POST", "/api/v1/cart/coupon", `{"code": "FLAT30"}`)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 20, decodeCart(t, env).FinalTotal, 1e-9)

	status, env = s.do("DELETE", "/api/v1/cart/coupon", "")
	require.Equal(t, http.StatusOK, status)
	c = decodeCart(t, env)
	assert.Nil(t, c.AppliedCoupon)
	assert.Equal(t, 50.0, c.FinalTotal)

	status, _ = s.do("PUT", "/api/v1/cart/budget", `{"amount": -5}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do("DELETE", "/api/v1/session", "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do("GET", "/api/v1/cart", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestApplyUnknownDiscountTypeFallsBack(t *testing.T) {
	s := newTestServer(t)
	s.openSession()

	_, _ = s.do("POST", "/api/v1/cart/items", `{"productId": "p4"}`)
	status, env := s.do("POST", "/api/v1/cart/coupon", `{"code": "MYSTERY"}`)
	require.Equal(t, http.StatusOK, status)
	c := decodeCart(t, env)
	assert.InDelta(t, 15, c.Discount, 1e-9)
	assert.InDelta(t, 35, c.FinalTotal, 1e-9)
}

func TestAddItemValidation(t *testing.T) {
	s := newTestServer(t)
	s.openSession()

	status, _ := s.do("POST", "/api/v1/cart/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do("POST", "/api/v1/cart/items", `{"productId": "nope"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do("POST", "/api/v1/cart/items", `{"product": {"id": "p1", "name": "Milk 1L", "price": 1}}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env := s.do("POST", "/api/v1/cart/items", `{"product": {"id": "voice-1-abc", "name": "eggz", "brand": "Generic", "price": 50, "unit": "1 unit", "category": "grocery"}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 50.0, decodeCart(t, env).Subtotal)
}

func TestParseVoiceDoesNotTouchCart(t *testing.T) {
	s := newTestServer(t)
	s.openSession()
	s.parser.parsed = voice.ParsedTranscript{Items: []string{"milk", "eggz"}, Budget: 800}

	status, env := s.do("POST", "/api/v1/voice/parse", `{"transcript": "milk and eggz under 800"}`)
	require.Equal(t, http.StatusOK, status)

	var res struct {
		Items []struct {
			ID    string  `json:"id"`
			Name  string  `json:"name"`
			Brand string  `json:"brand"`
			Price float64 `json:"price"`
		} `json:"items"`
		Budget     float64 `json:"budget"`
		Transcript string  `json:"originalTranscript"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Items, 2)
	assert.Equal(t, "p1", res.Items[0].ID)
	assert.Equal(t, "eggz", res.Items[1].Name)
	assert.Equal(t, "Generic", res.Items[1].Brand)
	assert.Equal(t, 50.0, res.Items[1].Price)
	assert.Equal(t, 800.0, res.Budget)

	_, env = s.do("GET", "/api/v1/cart", "")
	assert.Zero(t, decodeCart(t, env).ItemCount)
}

func TestVoiceToCart(t *testing.T) {
	s := newTestServer(t)
	s.openSession()
	s.parser.parsed = voice.ParsedTranscript{Items: []string{"milk", "bananas", "eggz"}, Budget: 500}

	status, env := s.do("POST", "/api/v1/cart/voice", `{"transcript": "milk bananas and eggz, budget 500"}`)
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Cart cartView `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 3, data.Cart.ItemCount)
	assert.Equal(t, 160.0, data.Cart.Subtotal)
	assert.Equal(t, 500.0, data.Cart.Budget)
}

func TestVoiceUpstreamFailureAddsNothing(t *testing.T) {
	s := newTestServer(t)
	s.openSession()
	s.parser.err = errors.New("model returned prose")

	status, env := s.do("POST", "/api/v1/cart/voice", `{"transcript": "milk"}`)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Failed to parse voice input", env.Message)
	assert.Equal(t, "model returned prose", env.Details)

	_, env = s.do("GET", "/api/v1/cart", "")
	assert.Zero(t, decodeCart(t, env).ItemCount)
}

func TestVoiceMissingTranscript(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do("POST", "/api/v1/voice/parse", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Transcript missing", env.Message)
}

func TestVoiceToCartClosedSessionSkipsParser(t *testing.T) {
	s := newTestServer(t)
	s.openSession()
	s.parser.parsed = voice.ParsedTranscript{Items: []string{"milk"}}

	status, _ := s.do("DELETE", "/api/v1/session", "")
	require.Equal(t, http.StatusOK, status)

	status, env := s.do("POST", "/api/v1/cart/voice", `{"transcript": "milk"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Session not found", env.Message)
	assert.Zero(t, s.parser.calls)
}
