package services

import (
	"fmt"
	"time"

	"github.com/avinash-ch/UnionSathi/models"
)

// Membership tariffs in whole rupees.
const (
	MonthlyBasePrice    int64 = 100
	YearlyBasePrice     int64 = 1000
	ReactivationPenalty int64 = 500

	// A pending subscription lapses once it is this many whole calendar
	// months behind its anchor date.
	lapseMonths = 2
)

// Quote is the price a member pays for a plan right now. It is derived state:
// recomputed on every view and at order creation, never persisted.
type Quote struct {
	Plan        string `json:"plan"`
	BasePrice   int64  `json:"base_price"`
	Penalty     int64  `json:"penalty"`
	TotalAmount int64  `json:"total_amount"`
	IsLapsed    bool   `json:"is_lapsed"`
}

// BasePriceFor returns the fixed tariff for a plan
func BasePriceFor(plan string) (int64, error) {
	switch plan {
	case models.PlanMonthly:
		return MonthlyBasePrice, nil
	case models.PlanYearly:
		return YearlyBasePrice, nil
	default:
		return 0, fmt.Errorf("unknown plan %q", plan)
	}
}

// ComputeQuote prices a plan for a member. A pending subscription whose
// anchor date (renewal date, else account creation) is two or more whole
// calendar months behind now has lapsed and pays the reactivation penalty.
// Pure function of its inputs; the same computation runs at display time and
// again, authoritatively, at order creation.
func ComputeQuote(plan, subscriptionStatus string, anchor, now time.Time) (Quote, error) {
	base, err := BasePriceFor(plan)
	if err != nil {
		return Quote{}, err
	}

	lapsed := subscriptionStatus == models.SubscriptionPending &&
		monthsBetween(anchor, now) >= lapseMonths

	var penalty int64
	if lapsed {
		penalty = ReactivationPenalty
	}

	return Quote{
		Plan:        plan,
		BasePrice:   base,
		Penalty:     penalty,
		TotalAmount: base + penalty,
		IsLapsed:    lapsed,
	}, nil
}

// monthsBetween counts whole calendar months from the start of a's month to
// the start of b's month. Day of month never matters.
func monthsBetween(a, b time.Time) int {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return (by-ay)*12 + int(bm) - int(am)
}

// StartOfMonth truncates t to the first instant of its calendar month
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// RenewalDateFor computes the renewal boundary written at settlement: one
// month or one year after the start of the current month, so all renewals
// land on month or year boundaries regardless of payment day.
func RenewalDateFor(plan string, settledAt time.Time) time.Time {
	som := StartOfMonth(settledAt)
	if plan == models.PlanYearly {
		return som.AddDate(1, 0, 0)
	}
	return som.AddDate(0, 1, 0)
}
