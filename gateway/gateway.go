package gateway

import (
	"context"
	"errors"
)

// Status is the gateway-agnostic order status used by the verification
// service. Provider statuses are normalized by each adapter.
type Status string

const (
	// StatusPaid means the gateway captured the payment.
	StatusPaid Status = "paid"
	// StatusPending means the order exists but has not settled yet.
	StatusPending Status = "pending"
	// StatusFailed means the order failed, was cancelled, or expired.
	StatusFailed Status = "failed"
)

// ErrUnavailable is returned when the gateway cannot be reached or responds
// with a transport-level error. Callers may retry the same operation.
var ErrUnavailable = errors.New("payment gateway unavailable")

// CreateOrderInput carries everything a gateway needs to open a checkout
// session. Amount is in whole rupees; adapters convert to minor units where
// their provider requires it.
type CreateOrderInput struct {
	ReceiptID    string
	AmountRupees int64
	Currency     string
	Plan         string
	UserID       uint
	Phone        string
	Email        string
	ReturnURL    string
}

// CheckoutSession is the handle returned to the client to drive checkout.
// Razorpay fills KeyID for its widget; Cashfree fills SessionID and
// CheckoutURL for its hosted page.
type CheckoutSession struct {
	Gateway      string `json:"gateway"`
	OrderID      string `json:"order_id"`
	SessionID    string `json:"session_id,omitempty"`
	CheckoutURL  string `json:"checkout_url,omitempty"`
	KeyID        string `json:"key_id,omitempty"`
	AmountRupees int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// OrderState is the result of a status poll.
type OrderState struct {
	Status Status
	// PaymentID is the gateway's payment id when the order is paid and the
	// provider exposes one.
	PaymentID string
}

// Gateway is the capability interface both payment providers implement.
// Verification logic is written against it and stays provider-agnostic.
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, in CreateOrderInput) (*CheckoutSession, error)
	OrderStatus(ctx context.Context, gatewayOrderID string) (OrderState, error)
}

// SignatureVerifier is implemented by gateways whose browser callbacks carry
// a signed attestation. A presented signature must verify before a payment
// is credited.
type SignatureVerifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// Registry maps gateway names to adapters.
type Registry map[string]Gateway

// Get returns the named gateway, or nil when unknown.
func (r Registry) Get(name string) Gateway {
	return r[name]
}
