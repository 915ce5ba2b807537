package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/gateway"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubGateway is an in-process gateway whose reported status the test
// controls.
type stubGateway struct {
	mu     sync.Mutex
	status gateway.Status
	orders int
}

func (s *stubGateway) Name() string { return "fake" }

func (s *stubGateway) CreateOrder(ctx context.Context, in gateway.CreateOrderInput) (*gateway.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders++
	return &gateway.CheckoutSession{
		Gateway:      "fake",
		OrderID:      fmt.Sprintf("order_http_%d", s.orders),
		AmountRupees: in.AmountRupees,
		Currency:     in.Currency,
	}, nil
}

func (s *stubGateway) OrderStatus(ctx context.Context, gatewayOrderID string) (gateway.OrderState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == gateway.StatusPaid {
		return gateway.OrderState{Status: s.status, PaymentID: "pay_http_1"}, nil
	}
	return gateway.OrderState{Status: s.status}, nil
}

func (s *stubGateway) setStatus(st gateway.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

var httpTestDBSeq int64

type paymentFlowFixture struct {
	router *gin.Engine
	db     *gorm.DB
	user   *models.User
	stub   *stubGateway
}

func setupPaymentFlow(t *testing.T) *paymentFlowFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:ctl_test_%d?mode=memory&cache=shared", atomic.AddInt64(&httpTestDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateSchema(db))
	config.DB = db

	stub := &stubGateway{status: gateway.StatusPending}
	InitServices(db, gateway.Registry{"fake": stub}, "http://localhost:8080")

	user := &models.User{
		FirstName:          "Lakshmi",
		LastName:           "Devi",
		Phone:              "9876543210",
		PreferredLocale:    "hi",
		IsVerified:         true,
		SubscriptionStatus: models.SubscriptionPending,
	}
	require.NoError(t, db.Create(user).Error)

	router := gin.New()
	// Stand-in for the auth middleware: load the member fresh per request.
	authed := router.Group("/v1/user")
	authed.Use(func(c *gin.Context) {
		var u models.User
		if err := db.First(&u, user.ID).Error; err == nil {
			c.Set("user", u)
		}
		c.Next()
	})
	authed.GET("/membership/quote", GetMembershipQuote)
	authed.POST("/membership/checkout", CreateMembershipOrder)
	authed.POST("/payments/verify", VerifyPayment)
	authed.GET("/payments", GetPaymentHistory)
	router.GET("/:locale/payments/status", PaymentStatusPage)

	return &paymentFlowFixture{router: router, db: db, user: user, stub: stub}
}

func (f *paymentFlowFixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(b)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func dataOf(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", envelope)
	return data
}

func TestMembershipQuoteEndpoint(t *testing.T) {
	f := setupPaymentFlow(t)

	w, envelope := f.do(t, http.MethodGet, "/v1/user/membership/quote?plan=yearly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", envelope["status"])

	quote := dataOf(t, envelope)["quote"].(map[string]interface{})
	assert.Equal(t, float64(1000), quote["total_amount"])
	assert.Equal(t, false, quote["is_lapsed"])

	w, _ = f.do(t, http.MethodGet, "/v1/user/membership/quote?plan=daily", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutEndpoint(t *testing.T) {
	t.Run("creates a session and a pending ledger row", func(t *testing.T) {
		f := setupPaymentFlow(t)

		w, envelope := f.do(t, http.MethodPost, "/v1/user/membership/checkout", gin.H{
			"plan": "monthly", "gateway": "fake",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		data := dataOf(t, envelope)
		session := data["session"].(map[string]interface{})
		assert.Equal(t, "order_http_1", session["order_id"])
		assert.Equal(t, float64(100), session["amount"])

		var payment models.Payment
		require.NoError(t, f.db.Where("gateway_order_id = ?", "order_http_1").First(&payment).Error)
		assert.Equal(t, models.PaymentPending, payment.Status)
		assert.Equal(t, f.user.ID, payment.UserID)
	})

	t.Run("rejects a body without a plan", func(t *testing.T) {
		f := setupPaymentFlow(t)
		w, _ := f.do(t, http.MethodPost, "/v1/user/membership/checkout", gin.H{"gateway": "fake"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects an unknown gateway", func(t *testing.T) {
		f := setupPaymentFlow(t)
		w, _ := f.do(t, http.MethodPost, "/v1/user/membership/checkout", gin.H{
			"plan": "monthly", "gateway": "paypal",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a stale displayed amount", func(t *testing.T) {
		f := setupPaymentFlow(t)
		w, _ := f.do(t, http.MethodPost, "/v1/user/membership/checkout", gin.H{
			"plan": "monthly", "gateway": "fake", "amount": 50,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVerifyEndpoint(t *testing.T) {
	t.Run("settles a paid order", func(t *testing.T) {
		f := setupPaymentFlow(t)
		f.stub.setStatus(gateway.StatusPaid)

		w, _ := f.do(t, http.MethodPost, "/v1/user/membership/checkout", gin.H{"plan": "monthly", "gateway": "fake"})
		require.Equal(t, http.StatusOK, w.Code)

		w, envelope := f.do(t, http.MethodPost, "/v1/user/payments/verify", gin.H{"order_id": "order_http_1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := dataOf(t, envelope)
		// The background reconciler started at checkout may have settled
		// first; either way the member lands on the dashboard.
		assert.Contains(t, []interface{}{"SETTLED_SUCCESS", "ALREADY_SETTLED"}, data["outcome"])
		assert.Equal(t, "/dashboard", data["redirect"])

		var payment models.Payment
		require.NoError(t, f.db.Where("gateway_order_id = ?", "order_http_1").First(&payment).Error)
		assert.Equal(t, models.PaymentSuccess, payment.Status)

		var member models.User
		require.NoError(t, f.db.First(&member, f.user.ID).Error)
		assert.Equal(t, models.SubscriptionActive, member.SubscriptionStatus)
	})

	t.Run("unknown order returns support details", func(t *testing.T) {
		f := setupPaymentFlow(t)
		w, envelope := f.do(t, http.MethodPost, "/v1/user/payments/verify", gin.H{"order_id": "order_forged"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		data := dataOf(t, envelope)
		assert.Equal(t, "NOT_FOUND", data["outcome"])
		assert.NotNil(t, data["support"])
	})

	t.Run("missing order_id is a bad request", func(t *testing.T) {
		f := setupPaymentFlow(t)
		w, _ := f.do(t, http.MethodPost, "/v1/user/payments/verify", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentStatusPage(t *testing.T) {
	t.Run("pending order tells the member to wait", func(t *testing.T) {
		f := setupPaymentFlow(t)
		w, _ := f.do(t, http.MethodPost, "/v1/user/membership/checkout", gin.H{"plan": "monthly", "gateway": "fake"})
		require.Equal(t, http.StatusOK, w.Code)

		w, envelope := f.do(t, http.MethodGet, "/hi/payments/status?order_id=order_http_1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, envelope)
		assert.Equal(t, "PENDING", data["outcome"])
		assert.NotNil(t, data["retry_after_seconds"])
	})

	t.Run("rejects an unsupported locale", func(t *testing.T) {
		f := setupPaymentFlow(t)
		w, _ := f.do(t, http.MethodGet, "/fr/payments/status?order_id=order_http_1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires an order id", func(t *testing.T) {
		f := setupPaymentFlow(t)
		w, _ := f.do(t, http.MethodGet, "/te/payments/status", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentHistoryEndpoint(t *testing.T) {
	f := setupPaymentFlow(t)
	f.stub.setStatus(gateway.StatusPaid)

	w, _ := f.do(t, http.MethodPost, "/v1/user/membership/checkout", gin.H{"plan": "yearly", "gateway": "fake"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = f.do(t, http.MethodPost, "/v1/user/payments/verify", gin.H{"order_id": "order_http_1"})
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope := f.do(t, http.MethodGet, "/v1/user/payments?status=success", nil)
	require.Equal(t, http.StatusOK, w.Code)

	items, ok := envelope["data"].([]interface{})
	require.True(t, ok, "expected a list payload: %v", envelope)
	require.Len(t, items, 1)
	record := items[0].(map[string]interface{})
	assert.Equal(t, "yearly", record["plan"])
	assert.Equal(t, float64(1000), record["amount"])
	assert.Equal(t, "success", record["status"])

	pagination := envelope["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])
}
