package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription status values for a member.
const (
	SubscriptionPending   = "pending"
	SubscriptionActive    = "active"
	SubscriptionInactive  = "inactive"
	SubscriptionCancelled = "cancelled"
)

// Membership plan values. Plan is set only when a payment settles.
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// Supported portal locales.
var SupportedLocales = map[string]bool{
	"en": true,
	"hi": true,
	"te": true,
}

// User represents a registered union member
type User struct {
	gorm.Model
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `gorm:"uniqueIndex;not null" json:"phone"`
	Email           string `json:"email"`
	Password        string `json:"-"`
	PreferredLocale string `json:"preferred_locale" gorm:"default:'en'"`
	ProfileImage    string `json:"profile_image"`
	District        string `json:"district"`
	Occupation      string `json:"occupation"`
	IsBlocked       bool   `json:"is_blocked"`
	IsVerified      bool   `json:"is_verified" gorm:"default:false"`
	GoogleID        *string `gorm:"unique;default:null" json:"google_id,omitempty"`

	// Subscription state. Active implies plan and renewal date are set and
	// the renewal date lies after the settlement instant of the last payment.
	SubscriptionStatus string     `json:"subscription_status" gorm:"default:'pending'"`
	SubscriptionPlan   string     `json:"subscription_plan"`
	RenewalDate        *time.Time `json:"renewal_date"`
	LastPaymentID      *uint      `json:"last_payment_id"`

	LastLoginAt time.Time `json:"last_login_at"`
}

// Admin represents a portal administrator
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// UserOTP represents a one-time password issued for phone or email verification
type UserOTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	Code      string    `json:"code" gorm:"not null"`
	Purpose   string    `json:"purpose"` // login, email_change
	Attempts  int       `json:"attempts" gorm:"default:0"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionAnchor returns the grace-period anchor date used by pricing:
// the renewal date when one exists, otherwise the account creation date.
func (u *User) SubscriptionAnchor() time.Time {
	if u.RenewalDate != nil {
		return *u.RenewalDate
	}
	return u.CreatedAt
}
