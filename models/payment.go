package models

import (
	"time"
)

// Payment status values. A payment is created pending and transitions exactly
// once to success or failed; terminal records are never mutated again.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Payment represents one attempted membership transaction. Rows are created
// and mutated only by the order and verification services.
type Payment struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	UserID           uint       `json:"user_id" gorm:"index;not null"`
	Plan             string     `json:"plan"`
	Amount           int64      `json:"amount"` // whole rupees; paise conversion happens at the gateway boundary
	Status           string     `json:"status"`
	Gateway          string     `json:"gateway"`
	GatewayOrderID   string     `json:"gateway_order_id" gorm:"uniqueIndex"`
	GatewayPaymentID string     `json:"gateway_payment_id"`
	GatewaySignature string     `json:"-"`
	ReceiptID        string     `json:"receipt_id" gorm:"uniqueIndex"`
	PaymentDate      *time.Time `json:"payment_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
