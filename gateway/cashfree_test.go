package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCashfreeTestServer(t *testing.T, handler http.HandlerFunc) (*CashfreeGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCashfreeGateway("client-id", "client-secret", srv.URL), srv
}

func TestCashfreeCreateOrder(t *testing.T) {
	var gotAuthHeaders http.Header
	var gotPayload map[string]interface{}

	g, _ := newCashfreeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pg/orders", r.URL.Path)
		gotAuthHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"order_id":           "mem_9_20260315_ab12",
			"order_status":       "ACTIVE",
			"order_amount":       600,
			"payment_session_id": "session_abc",
		})
	})

	session, err := g.CreateOrder(context.Background(), CreateOrderInput{
		ReceiptID:    "mem_9_20260315_ab12",
		AmountRupees: 600,
		Plan:         "monthly",
		UserID:       9,
		Phone:        "9876543210",
		ReturnURL:    "http://localhost:8080/te/payments/status?order_id={order_id}",
	})
	require.NoError(t, err)

	assert.Equal(t, "cashfree", session.Gateway)
	assert.Equal(t, "mem_9_20260315_ab12", session.OrderID)
	assert.Equal(t, "session_abc", session.SessionID)
	assert.Contains(t, session.CheckoutURL, "session_abc")
	assert.Equal(t, int64(600), session.AmountRupees)
	assert.Equal(t, "INR", session.Currency)

	assert.Equal(t, "client-id", gotAuthHeaders.Get("x-client-id"))
	assert.Equal(t, "client-secret", gotAuthHeaders.Get("x-client-secret"))
	assert.Equal(t, "2022-09-01", gotAuthHeaders.Get("x-api-version"))

	// Cashfree charges major units: 600 rupees stays 600.
	assert.Equal(t, float64(600), gotPayload["order_amount"])
	meta := gotPayload["order_meta"].(map[string]interface{})
	assert.Contains(t, meta["return_url"], "{order_id}")
}

func TestCashfreeCreateOrderAPIError(t *testing.T) {
	g, _ := newCashfreeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"code": "auth_failed", "message": "bad credentials"})
	})

	_, err := g.CreateOrder(context.Background(), CreateOrderInput{ReceiptID: "r1", AmountRupees: 100})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "auth_failed")
}

func TestCashfreeOrderStatus(t *testing.T) {
	cases := []struct {
		name       string
		cfStatus   string
		wantStatus Status
	}{
		{"active order is pending", "ACTIVE", StatusPending},
		{"paid order is paid", "PAID", StatusPaid},
		{"expired order failed", "EXPIRED", StatusFailed},
		{"terminated order failed", "TERMINATED", StatusFailed},
		{"unknown status treated as failed", "SOMETHING_NEW", StatusFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newCashfreeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/pg/orders/ord_1":
					json.NewEncoder(w).Encode(map[string]interface{}{
						"order_id":     "ord_1",
						"order_status": tc.cfStatus,
					})
				case "/pg/orders/ord_1/payments":
					json.NewEncoder(w).Encode([]map[string]interface{}{
						{"cf_payment_id": 5114911, "payment_status": "SUCCESS"},
					})
				default:
					t.Fatalf("unexpected path %s", r.URL.Path)
				}
			})

			state, err := g.OrderStatus(context.Background(), "ord_1")
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, state.Status)
			if tc.wantStatus == StatusPaid {
				assert.Equal(t, "5114911", state.PaymentID)
			} else {
				assert.Empty(t, state.PaymentID)
			}
		})
	}
}

func TestCashfreeOrderStatusTransportError(t *testing.T) {
	g, srv := newCashfreeTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := g.OrderStatus(context.Background(), "ord_gone")
	assert.ErrorIs(t, err, ErrUnavailable)
}
