package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/avinash-ch/UnionSathi/utils"
	razorpay "github.com/razorpay/razorpay-go"
)

var _ Gateway = (*RazorpayGateway)(nil)
var _ SignatureVerifier = (*RazorpayGateway)(nil)

// RazorpayGateway drives the Razorpay widget checkout. Razorpay expects
// amounts in paise and signs widget callbacks with HMAC-SHA256 over
// "orderID|paymentID" keyed by the key secret.
type RazorpayGateway struct {
	key    string
	secret string
	client *razorpay.Client
}

// NewRazorpayGateway creates the adapter from the configured key pair
func NewRazorpayGateway(key, secret string) *RazorpayGateway {
	return &RazorpayGateway{
		key:    key,
		secret: secret,
		client: razorpay.NewClient(key, secret),
	}
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

// CreateOrder creates a Razorpay order for the given amount in paise
func (g *RazorpayGateway) CreateOrder(ctx context.Context, in CreateOrderInput) (*CheckoutSession, error) {
	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}

	orderData := map[string]interface{}{
		"amount":          in.AmountRupees * 100, // rupees to paise
		"currency":        currency,
		"receipt":         in.ReceiptID,
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"plan":       in.Plan,
			"user_id":    fmt.Sprintf("%d", in.UserID),
			"return_url": in.ReturnURL,
		},
	}

	rzOrder, err := g.client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Razorpay order create failed for receipt %s: %v", in.ReceiptID, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	orderID := fmt.Sprintf("%v", rzOrder["id"])
	utils.LogDebug("Created Razorpay order %s for receipt %s", orderID, in.ReceiptID)

	return &CheckoutSession{
		Gateway:      g.Name(),
		OrderID:      orderID,
		KeyID:        g.key,
		AmountRupees: in.AmountRupees,
		Currency:     currency,
	}, nil
}

// OrderStatus fetches the order and normalizes Razorpay's status values:
// created/attempted are still pending, paid is settled.
func (g *RazorpayGateway) OrderStatus(ctx context.Context, gatewayOrderID string) (OrderState, error) {
	rzOrder, err := g.client.Order.Fetch(gatewayOrderID, nil, nil)
	if err != nil {
		utils.LogError("Razorpay order fetch failed for %s: %v", gatewayOrderID, err)
		return OrderState{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	status := fmt.Sprintf("%v", rzOrder["status"])
	switch status {
	case "paid":
		return OrderState{Status: StatusPaid, PaymentID: g.capturedPaymentID(gatewayOrderID)}, nil
	case "created", "attempted":
		return OrderState{Status: StatusPending}, nil
	default:
		utils.LogError("Unexpected Razorpay order status %q for %s", status, gatewayOrderID)
		return OrderState{Status: StatusFailed}, nil
	}
}

// capturedPaymentID returns the captured payment id for a paid order, or ""
// when the payments listing cannot be read. Settlement does not depend on it.
func (g *RazorpayGateway) capturedPaymentID(gatewayOrderID string) string {
	payments, err := g.client.Order.Payments(gatewayOrderID, nil, nil)
	if err != nil {
		utils.LogError("Razorpay payments fetch failed for %s: %v", gatewayOrderID, err)
		return ""
	}
	items, ok := payments["items"].([]interface{})
	if !ok {
		return ""
	}
	for _, it := range items {
		p, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		if fmt.Sprintf("%v", p["status"]) == "captured" {
			return fmt.Sprintf("%v", p["id"])
		}
	}
	return ""
}

// VerifySignature implements SignatureVerifier using Razorpay's documented
// HMAC-SHA256 over "orderID|paymentID" keyed by the key secret.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(g.secret))
	h.Write([]byte(data))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
