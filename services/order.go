package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/avinash-ch/UnionSathi/gateway"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/utils"
	"gorm.io/gorm"
)

// Typed order-creation errors, translated to HTTP responses at the
// controller boundary.
var (
	ErrInvalidPlan     = errors.New("invalid plan")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrAmountMismatch  = errors.New("amount does not match the current quote")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserBlocked     = errors.New("user is blocked")
	ErrUnknownGateway  = errors.New("unknown payment gateway")
	ErrGatewayFailure  = errors.New("payment gateway unavailable")
	ErrReceiptConflict = errors.New("receipt id collision")
)

// Sane upper bound for a single membership charge, in rupees.
const maxOrderAmount = 100000

// OrderService validates a checkout request, opens a gateway session and
// records the pending payment. Exactly one pending Payment row is written
// per successful call; any failure leaves the ledger untouched.
type OrderService struct {
	db       *gorm.DB
	gateways gateway.Registry
	baseURL  string
	now      func() time.Time
}

// NewOrderService wires the order creation service
func NewOrderService(db *gorm.DB, gateways gateway.Registry, baseURL string) *OrderService {
	return &OrderService{db: db, gateways: gateways, baseURL: baseURL, now: time.Now}
}

// CreateOrderInput is the client's checkout request. Amount is the total the
// client displayed; it is advisory only and must match the server-side
// recomputed quote.
type CreateOrderInput struct {
	UserID  uint
	Plan    string
	Amount  int64
	Gateway string
	Locale  string
}

// CreateOrderResult is the checkout handle handed back to the client
type CreateOrderResult struct {
	Session *gateway.CheckoutSession `json:"session"`
	Payment *models.Payment          `json:"payment"`
	Quote   Quote                    `json:"quote"`
}

// CreateOrder runs the full order-creation flow from §validation through
// gateway session to the pending ledger row.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if in.Plan != models.PlanMonthly && in.Plan != models.PlanYearly {
		return nil, ErrInvalidPlan
	}

	gw := s.gateways.Get(in.Gateway)
	if gw == nil {
		return nil, ErrUnknownGateway
	}

	var user models.User
	if err := s.db.First(&user, in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.IsBlocked {
		return nil, ErrUserBlocked
	}

	valid, phone := utils.ValidatePhone(user.Phone)
	if !valid {
		return nil, ErrInvalidPhone
	}
	if user.Email != "" {
		if ok, _ := utils.ValidateEmail(user.Email); !ok {
			return nil, ErrInvalidEmail
		}
	}

	// The amount charged is always recomputed from authoritative
	// subscription state. A client total that disagrees is rejected, not
	// silently corrected, so stale pricing surfaces to the member.
	quote, err := ComputeQuote(in.Plan, user.SubscriptionStatus, user.SubscriptionAnchor(), s.now())
	if err != nil {
		return nil, ErrInvalidPlan
	}
	if quote.TotalAmount <= 0 || quote.TotalAmount > maxOrderAmount {
		return nil, ErrInvalidAmount
	}
	if in.Amount != 0 && in.Amount != quote.TotalAmount {
		utils.LogError("Amount mismatch for user %d: client sent %d, quote is %d", user.ID, in.Amount, quote.TotalAmount)
		return nil, ErrAmountMismatch
	}

	receiptID, err := s.newReceiptID(user.ID)
	if err != nil {
		return nil, err
	}

	locale := in.Locale
	if !models.SupportedLocales[locale] {
		locale = utils.DefaultLocale
	}
	returnURL := fmt.Sprintf("%s/%s/payments/status?order_id={order_id}", s.baseURL, locale)

	session, err := gw.CreateOrder(ctx, gateway.CreateOrderInput{
		ReceiptID:    receiptID,
		AmountRupees: quote.TotalAmount,
		Currency:     "INR",
		Plan:         in.Plan,
		UserID:       user.ID,
		Phone:        phone,
		Email:        user.Email,
		ReturnURL:    returnURL,
	})
	if err != nil {
		// No Payment row for an order the gateway never opened.
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}

	payment := models.Payment{
		UserID:         user.ID,
		Plan:           in.Plan,
		Amount:         quote.TotalAmount,
		Status:         models.PaymentPending,
		Gateway:        gw.Name(),
		GatewayOrderID: session.OrderID,
		ReceiptID:      receiptID,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		utils.LogError("Failed to record pending payment for gateway order %s: %v", session.OrderID, err)
		return nil, err
	}
	utils.LogInfo("Created pending payment %d (gateway order %s) for user %d, amount %d", payment.ID, session.OrderID, user.ID, quote.TotalAmount)

	return &CreateOrderResult{Session: session, Payment: &payment, Quote: quote}, nil
}

// newReceiptID builds a receipt id from a timestamp plus random entropy and
// rejects the rare collision against existing payments instead of reusing it.
func (s *OrderService) newReceiptID(userID uint) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		id := fmt.Sprintf("mem_%d_%s_%s", userID, s.now().Format("20060102150405"), hex.EncodeToString(buf))

		var count int64
		if err := s.db.Model(&models.Payment{}).Where("receipt_id = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return id, nil
		}
		utils.LogError("Receipt id collision on %s, regenerating", id)
	}
	return "", ErrReceiptConflict
}
