package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avinash-ch/UnionSathi/utils"
)

var _ Gateway = (*CashfreeGateway)(nil)

const cashfreeAPIVersion = "2022-09-01"

// CashfreeGateway drives Cashfree's hosted checkout. Cashfree takes amounts
// in whole rupees, returns a payment_session_id for its checkout page, and
// is reconciled by polling the order status (no callback signature).
type CashfreeGateway struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client
}

// NewCashfreeGateway creates the adapter. baseURL selects sandbox or
// production, e.g. https://sandbox.cashfree.com
func NewCashfreeGateway(clientID, clientSecret, baseURL string) *CashfreeGateway {
	return &CashfreeGateway{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *CashfreeGateway) Name() string { return "cashfree" }

type cashfreeOrderResponse struct {
	OrderID          string  `json:"order_id"`
	OrderStatus      string  `json:"order_status"`
	OrderAmount      float64 `json:"order_amount"`
	PaymentSessionID string  `json:"payment_session_id"`
}

type cashfreePayment struct {
	CfPaymentID   json.Number `json:"cf_payment_id"`
	PaymentStatus string      `json:"payment_status"`
}

// CreateOrder opens a hosted checkout session via POST /pg/orders
func (g *CashfreeGateway) CreateOrder(ctx context.Context, in CreateOrderInput) (*CheckoutSession, error) {
	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}

	payload := map[string]interface{}{
		"order_id":       in.ReceiptID,
		"order_amount":   in.AmountRupees, // Cashfree takes major units
		"order_currency": currency,
		"order_note":     in.Plan,
		"customer_details": map[string]interface{}{
			"customer_id":    fmt.Sprintf("member_%d", in.UserID),
			"customer_phone": in.Phone,
			"customer_email": in.Email,
		},
		"order_meta": map[string]interface{}{
			// Cashfree substitutes {order_id} on redirect.
			"return_url": in.ReturnURL,
		},
	}

	var resp cashfreeOrderResponse
	if err := g.do(ctx, http.MethodPost, "/pg/orders", payload, &resp); err != nil {
		utils.LogError("Cashfree order create failed for receipt %s: %v", in.ReceiptID, err)
		return nil, err
	}
	utils.LogDebug("Created Cashfree order %s for receipt %s", resp.OrderID, in.ReceiptID)

	return &CheckoutSession{
		Gateway:      g.Name(),
		OrderID:      resp.OrderID,
		SessionID:    resp.PaymentSessionID,
		CheckoutURL:  fmt.Sprintf("%s/pg/view/order/%s", g.baseURL, resp.PaymentSessionID),
		AmountRupees: in.AmountRupees,
		Currency:     currency,
	}, nil
}

// OrderStatus polls GET /pg/orders/{id} and normalizes Cashfree's statuses:
// ACTIVE is still pending, PAID is settled, everything else is terminal.
func (g *CashfreeGateway) OrderStatus(ctx context.Context, gatewayOrderID string) (OrderState, error) {
	var resp cashfreeOrderResponse
	if err := g.do(ctx, http.MethodGet, "/pg/orders/"+gatewayOrderID, nil, &resp); err != nil {
		utils.LogError("Cashfree order fetch failed for %s: %v", gatewayOrderID, err)
		return OrderState{}, err
	}

	switch resp.OrderStatus {
	case "PAID":
		return OrderState{Status: StatusPaid, PaymentID: g.successfulPaymentID(ctx, gatewayOrderID)}, nil
	case "ACTIVE":
		return OrderState{Status: StatusPending}, nil
	case "EXPIRED", "TERMINATED", "TERMINATION_REQUESTED":
		return OrderState{Status: StatusFailed}, nil
	default:
		utils.LogError("Unexpected Cashfree order status %q for %s", resp.OrderStatus, gatewayOrderID)
		return OrderState{Status: StatusFailed}, nil
	}
}

// successfulPaymentID looks up the successful payment attached to a paid
// order. Best effort; settlement does not depend on it.
func (g *CashfreeGateway) successfulPaymentID(ctx context.Context, gatewayOrderID string) string {
	var payments []cashfreePayment
	if err := g.do(ctx, http.MethodGet, "/pg/orders/"+gatewayOrderID+"/payments", nil, &payments); err != nil {
		utils.LogError("Cashfree payments fetch failed for %s: %v", gatewayOrderID, err)
		return ""
	}
	for _, p := range payments {
		if p.PaymentStatus == "SUCCESS" {
			return p.CfPaymentID.String()
		}
	}
	return ""
}

func (g *CashfreeGateway) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %v", err)
		}
		body = bytes.NewBuffer(b)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-version", cashfreeAPIVersion)
	req.Header.Set("x-client-id", g.clientID)
	req.Header.Set("x-client-secret", g.clientSecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%w: http %d code=%s message=%s", ErrUnavailable, resp.StatusCode, apiErr.Code, apiErr.Message)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
		}
	}
	return nil
}
