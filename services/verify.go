package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avinash-ch/UnionSathi/gateway"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/utils"
	"gorm.io/gorm"
)

// Outcome classifies one verification attempt. PENDING is the only outcome
// the caller polls on; NOT_FOUND and FAILED are terminal; ERROR is a
// transient gateway problem and safe to retry.
type Outcome string

const (
	OutcomeSettledSuccess Outcome = "SETTLED_SUCCESS"
	OutcomeAlreadySettled Outcome = "ALREADY_SETTLED"
	OutcomePending        Outcome = "PENDING"
	OutcomeNotFound       Outcome = "NOT_FOUND"
	OutcomeFailed         Outcome = "FAILED"
	OutcomeError          Outcome = "ERROR"
)

// Terminal reports whether no further verification attempt can change the
// outcome for this order.
func (o Outcome) Terminal() bool {
	switch o {
	case OutcomeSettledSuccess, OutcomeAlreadySettled, OutcomeNotFound, OutcomeFailed:
		return true
	}
	return false
}

// PaymentAttestation carries the signed callback parameters a gateway widget
// posts after checkout. When present it must verify before crediting.
type PaymentAttestation struct {
	PaymentID string
	Signature string
}

// VerifyResult is the typed result handed to controllers and the reconciler
type VerifyResult struct {
	Outcome Outcome         `json:"outcome"`
	Message string          `json:"message"`
	Payment *models.Payment `json:"payment,omitempty"`
}

// VerificationService reconciles a gateway order against the local payment
// ledger and performs the one atomic settlement write. It is the only code
// that mutates Payment.Status or a user's subscription columns.
type VerificationService struct {
	db       *gorm.DB
	gateways gateway.Registry
	sessions *SessionStore
	now      func() time.Time
}

// NewVerificationService wires the verification service
func NewVerificationService(db *gorm.DB, gateways gateway.Registry, sessions *SessionStore) *VerificationService {
	return &VerificationService{db: db, gateways: gateways, sessions: sessions, now: time.Now}
}

// Verify reconciles one order. Safe to call any number of times for the same
// order: the settled branch is a no-op guarded by the ledger status, and the
// settlement itself is a single transaction over both records.
func (s *VerificationService) Verify(ctx context.Context, orderID string, attest *PaymentAttestation) VerifyResult {
	var payment models.Payment
	if err := s.db.Where("gateway_order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Either the gateway accepted an order our ledger write missed,
			// or the order id is forged. Support has to look at it; retrying
			// cannot help.
			utils.LogError("Verification requested for unknown order %s", orderID)
			return VerifyResult{Outcome: OutcomeNotFound, Message: "No payment record found for this order. Please contact support with your order id."}
		}
		utils.LogError("Payment lookup failed for order %s: %v", orderID, err)
		return VerifyResult{Outcome: OutcomeError, Message: utils.ErrPaymentUnavailable}
	}

	// Idempotency guard: a settled order is never touched again, whatever
	// the gateway reports now.
	if payment.Status == models.PaymentSuccess {
		return VerifyResult{Outcome: OutcomeAlreadySettled, Message: "Payment already settled.", Payment: &payment}
	}
	if payment.Status == models.PaymentFailed {
		return VerifyResult{Outcome: OutcomeFailed, Message: "This payment failed. Please start a new payment.", Payment: &payment}
	}

	gw := s.gateways.Get(payment.Gateway)
	if gw == nil {
		utils.LogError("Payment %d references unknown gateway %q", payment.ID, payment.Gateway)
		return VerifyResult{Outcome: OutcomeError, Message: utils.ErrPaymentUnavailable}
	}

	// A presented signature must verify before anything is credited, even
	// if the gateway's own status query says paid. A mismatch is a security
	// event, not a routine failure, and the row is left for support review.
	if attest != nil {
		if sv, ok := gw.(gateway.SignatureVerifier); ok {
			if !sv.VerifySignature(orderID, attest.PaymentID, attest.Signature) {
				utils.LogSecurity("Signature mismatch for order %s (payment id %s, user %d)", orderID, attest.PaymentID, payment.UserID)
				return VerifyResult{Outcome: OutcomeFailed, Message: "Payment verification failed.", Payment: &payment}
			}
		}
	}

	state, err := gw.OrderStatus(ctx, orderID)
	if err != nil {
		utils.LogError("Gateway status query failed for order %s: %v", orderID, err)
		return VerifyResult{Outcome: OutcomeError, Message: utils.ErrPaymentUnavailable, Payment: &payment}
	}

	switch state.Status {
	case gateway.StatusPaid:
		return s.settle(&payment, state, attest)
	case gateway.StatusPending:
		return VerifyResult{Outcome: OutcomePending, Message: "Payment is still processing. Please wait.", Payment: &payment}
	default:
		return s.markFailed(&payment)
	}
}

// settle flips the payment to success and activates the subscription in one
// transaction. Both writes land or neither does; a concurrent settlement of
// the same order degrades to the idempotent branch.
func (s *VerificationService) settle(payment *models.Payment, state gateway.OrderState, attest *PaymentAttestation) VerifyResult {
	settledAt := s.now()
	renewal := RenewalDateFor(payment.Plan, settledAt)
	gatewayPaymentID := state.PaymentID
	var signature string
	if attest != nil {
		if gatewayPaymentID == "" {
			gatewayPaymentID = attest.PaymentID
		}
		signature = attest.Signature
	}

	alreadySettled := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentPending).
			Updates(map[string]interface{}{
				"status":             models.PaymentSuccess,
				"payment_date":       settledAt,
				"gateway_payment_id": gatewayPaymentID,
				"gateway_signature":  signature,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another verification won the race; its transaction already
			// applied both writes.
			alreadySettled = true
			return nil
		}

		res = tx.Model(&models.User{}).
			Where("id = ?", payment.UserID).
			Updates(map[string]interface{}{
				"subscription_status": models.SubscriptionActive,
				"subscription_plan":   payment.Plan,
				"renewal_date":        renewal,
				"last_payment_id":     payment.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %d not found during settlement", payment.UserID)
		}
		return nil
	})
	if err != nil {
		utils.LogError("Settlement transaction failed for order %s: %v", payment.GatewayOrderID, err)
		return VerifyResult{Outcome: OutcomeError, Message: utils.ErrPaymentUnavailable, Payment: payment}
	}

	var fresh models.Payment
	if err := s.db.First(&fresh, payment.ID).Error; err == nil {
		payment = &fresh
	}
	if alreadySettled {
		return VerifyResult{Outcome: OutcomeAlreadySettled, Message: "Payment already settled.", Payment: payment}
	}

	utils.LogInfo("Settled payment %d (order %s): user %d now %s until %s",
		payment.ID, payment.GatewayOrderID, payment.UserID, payment.Plan, renewal.Format("2006-01-02"))
	if s.sessions != nil {
		s.sessions.Publish(SessionEvent{UserID: payment.UserID, Type: EventSubscriptionActivated, At: settledAt})
	}
	s.sendReceipt(payment, renewal)

	return VerifyResult{Outcome: OutcomeSettledSuccess, Message: "Payment successful. Your membership is active.", Payment: payment}
}

func (s *VerificationService) markFailed(payment *models.Payment) VerifyResult {
	res := s.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", payment.ID, models.PaymentPending).
		Update("status", models.PaymentFailed)
	if res.Error != nil {
		utils.LogError("Failed to mark payment %d failed: %v", payment.ID, res.Error)
		return VerifyResult{Outcome: OutcomeError, Message: utils.ErrPaymentUnavailable, Payment: payment}
	}
	payment.Status = models.PaymentFailed
	utils.LogInfo("Payment %d (order %s) marked failed", payment.ID, payment.GatewayOrderID)
	return VerifyResult{Outcome: OutcomeFailed, Message: "Payment failed at the gateway. Please start a new payment.", Payment: payment}
}

// sendReceipt emails a settlement receipt when the member has an email on
// file. Best effort only; the settlement has already committed.
func (s *VerificationService) sendReceipt(payment *models.Payment, renewal time.Time) {
	var user models.User
	if err := s.db.First(&user, payment.UserID).Error; err != nil || user.Email == "" {
		return
	}
	go func() {
		if err := utils.SendReceiptEmail(user.Email, payment.Plan, payment.ReceiptID, payment.Amount, renewal.Format("2 January 2006")); err != nil {
			utils.LogError("Receipt email failed for payment %d: %v", payment.ID, err)
		}
	}()
}
