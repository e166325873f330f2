package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout-service/checkout"
	"checkout-service/models"
)

type stubStore struct {
	mu       sync.Mutex
	products map[int64]*models.Product
	coupons  map[string]*models.Coupon
	orders   int
}

func (s *stubStore) Begin(ctx context.Context) (checkout.StoreTx, error) {
	s.mu.Lock()
	return &stubTx{s: s}, nil
}

type stubTx struct {
	s      *stubStore
	orders int
	decr   []struct {
		id  int64
		qty int
	}
}

func (t *stubTx) LockProducts(ctx context.Context, ids []int64) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := t.s.products[id]; ok && p.Status == models.ProductStatusActive && p.Published {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (t *stubTx) FindCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	if c, ok := t.s.coupons[code]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (t *stubTx) CreateOrder(ctx context.Context, order *models.Order) (int64, error) {
	t.orders++
	return int64(t.s.orders + t.orders), nil
}

func (t *stubTx) CreateOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error {
	return nil
}

func (t *stubTx) DecrementStock(ctx context.Context, productID int64, qty int) error {
	t.decr = append(t.decr, struct {
		id  int64
		qty int
	}{productID, qty})
	return nil
}

func (t *stubTx) Commit() error {
	t.s.orders += t.orders
	for _, d := range t.decr {
		t.s.products[d.id].Stock -= d.qty
	}
	t.s.mu.Unlock()
	return nil
}

func (t *stubTx) Rollback() error {
	t.s.mu.Unlock()
	return nil
}

func setupRouter(t *testing.T, store *stubStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	SetCheckoutService(checkout.NewService(store))
	SetRabbitMQ(nil)

	r := gin.New()
	r.POST("/api/orders/checkout", func(c *gin.Context) {
		c.Set("userID", int64(42))
		Checkout(c)
	})
	return r
}

func defaultStore() *stubStore {
	return &stubStore{
		products: map[int64]*models.Product{
			1: {ID: 1, Name: "Keyboard", Price: 10000, Stock: 10,
				Status: models.ProductStatusActive, Published: true},
			2: {ID: 2, Name: "Mouse", Price: 8000, Stock: 1,
				Status: models.ProductStatusActive, Published: true},
		},
		coupons: map[string]*models.Coupon{
			"SAVE10": {Code: "SAVE10", DiscountType: models.DiscountTypePercent, Amount: 10, Active: true},
		},
	}
}

func doCheckout(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validCustomer = `{"name":"Budi","phone":"0812","address":"Jakarta"}`

func TestCheckoutEndpointCreated(t *testing.T) {
	r := setupRouter(t, defaultStore())

	w := doCheckout(r, `{
		"customer": `+validCustomer+`,
		"paymentMethod": "COD",
		"couponCode": "save10",
		"items": [{"productId": 1, "qty": 2}]
	}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.OrderID)
	assert.Contains(t, resp.InvoiceNo, "INV-")
	assert.Equal(t, models.Money(20000), resp.Subtotal)
	assert.Equal(t, models.Money(2000), resp.Discount)
	assert.Equal(t, models.Money(0), resp.Tax)
	assert.Equal(t, models.Money(0), resp.Shipping)
	assert.Equal(t, models.Money(18000), resp.Total)
	assert.Equal(t, "COD", resp.PaymentMethod)
}

func TestCheckoutEndpointInvalidPaymentMethod(t *testing.T) {
	r := setupRouter(t, defaultStore())

	w := doCheckout(r, `{
		"customer": `+validCustomer+`,
		"paymentMethod": "BITCOIN",
		"items": [{"productId": 1, "qty": 1}]
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutEndpointMissingCustomerFields(t *testing.T) {
	r := setupRouter(t, defaultStore())

	w := doCheckout(r, `{
		"customer": {"name":"Budi"},
		"paymentMethod": "COD",
		"items": [{"productId": 1, "qty": 1}]
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutEndpointInvalidCart(t *testing.T) {
	r := setupRouter(t, defaultStore())

	w := doCheckout(r, `{
		"customer": `+validCustomer+`,
		"paymentMethod": "COD",
		"items": [{"productId": 0, "qty": 5}]
	}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "empty or malformed")
}

func TestCheckoutEndpointMissingProducts(t *testing.T) {
	r := setupRouter(t, defaultStore())

	w := doCheckout(r, `{
		"customer": `+validCustomer+`,
		"paymentMethod": "TRANSFER",
		"items": [{"productId": 999, "qty": 1}]
	}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Missing []int64 `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int64{999}, resp.Missing)
}

func TestCheckoutEndpointInsufficientStock(t *testing.T) {
	r := setupRouter(t, defaultStore())

	w := doCheckout(r, `{
		"customer": `+validCustomer+`,
		"paymentMethod": "EWALLET",
		"items": [{"productId": 2, "qty": 3}]
	}`)

	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		ProductID int64  `json:"product_id"`
		Name      string `json:"name"`
		Available int    `json:"available"`
		Requested int    `json:"requested"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.ProductID)
	assert.Equal(t, "Mouse", resp.Name)
	assert.Equal(t, 1, resp.Available)
	assert.Equal(t, 3, resp.Requested)
}

func TestCheckoutEndpointInvalidCoupon(t *testing.T) {
	r := setupRouter(t, defaultStore())

	w := doCheckout(r, `{
		"customer": `+validCustomer+`,
		"paymentMethod": "COD",
		"couponCode": "NOPE",
		"items": [{"productId": 1, "qty": 1}]
	}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "coupon not found")
}

func TestCheckoutEndpointUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetCheckoutService(checkout.NewService(defaultStore()))

	r := gin.New()
	r.POST("/api/orders/checkout", Checkout)

	w := doCheckout(r, `{
		"customer": `+validCustomer+`,
		"paymentMethod": "COD",
		"items": [{"productId": 1, "qty": 1}]
	}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
