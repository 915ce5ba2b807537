package services

import (
	"testing"
	"time"

	"github.com/avinash-ch/UnionSathi/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBasePriceFor(t *testing.T) {
	monthly, err := BasePriceFor(models.PlanMonthly)
	require.NoError(t, err)
	assert.Equal(t, int64(100), monthly)

	yearly, err := BasePriceFor(models.PlanYearly)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), yearly)

	_, err = BasePriceFor("weekly")
	assert.Error(t, err)
}

func TestComputeQuote(t *testing.T) {
	now := date(2026, time.March, 15)

	t.Run("fresh pending member pays the base price", func(t *testing.T) {
		q, err := ComputeQuote(models.PlanMonthly, models.SubscriptionPending, now, now)
		require.NoError(t, err)
		assert.Equal(t, int64(100), q.TotalAmount)
		assert.Equal(t, int64(0), q.Penalty)
		assert.False(t, q.IsLapsed)
	})

	t.Run("one whole month behind is still within grace", func(t *testing.T) {
		// Anchor in January, checking in February: only one month boundary
		// crossed, regardless of the day of month.
		q, err := ComputeQuote(models.PlanMonthly, models.SubscriptionPending, date(2026, time.January, 1), date(2026, time.February, 28))
		require.NoError(t, err)
		assert.False(t, q.IsLapsed)
		assert.Equal(t, int64(100), q.TotalAmount)
	})

	t.Run("two month boundaries crossed means lapsed", func(t *testing.T) {
		q, err := ComputeQuote(models.PlanMonthly, models.SubscriptionPending, date(2026, time.January, 31), date(2026, time.March, 1))
		require.NoError(t, err)
		assert.True(t, q.IsLapsed)
		assert.Equal(t, int64(500), q.Penalty)
		assert.Equal(t, int64(600), q.TotalAmount)
	})

	t.Run("lapsed yearly includes the same penalty", func(t *testing.T) {
		q, err := ComputeQuote(models.PlanYearly, models.SubscriptionPending, date(2025, time.June, 10), now)
		require.NoError(t, err)
		assert.True(t, q.IsLapsed)
		assert.Equal(t, int64(1500), q.TotalAmount)
	})

	t.Run("active members never lapse", func(t *testing.T) {
		q, err := ComputeQuote(models.PlanMonthly, models.SubscriptionActive, date(2024, time.January, 1), now)
		require.NoError(t, err)
		assert.False(t, q.IsLapsed)
		assert.Equal(t, int64(100), q.TotalAmount)
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		_, err := ComputeQuote("lifetime", models.SubscriptionPending, now, now)
		assert.Error(t, err)
	})

	t.Run("same inputs always price the same", func(t *testing.T) {
		anchor := date(2025, time.November, 20)
		first, err := ComputeQuote(models.PlanMonthly, models.SubscriptionPending, anchor, now)
		require.NoError(t, err)
		second, err := ComputeQuote(models.PlanMonthly, models.SubscriptionPending, anchor, now)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 0, monthsBetween(date(2026, time.January, 1), date(2026, time.January, 31)))
	assert.Equal(t, 1, monthsBetween(date(2026, time.January, 31), date(2026, time.February, 1)))
	assert.Equal(t, 2, monthsBetween(date(2026, time.January, 15), date(2026, time.March, 15)))
	assert.Equal(t, 12, monthsBetween(date(2025, time.March, 1), date(2026, time.March, 1)))
	assert.Equal(t, 11, monthsBetween(date(2025, time.December, 25), date(2026, time.November, 2)))
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(time.Date(2026, time.March, 17, 14, 32, 9, 12345, time.UTC))
	assert.Equal(t, date(2026, time.March, 1), got)
}

func TestRenewalDateFor(t *testing.T) {
	settled := time.Date(2026, time.March, 17, 10, 0, 0, 0, time.UTC)

	t.Run("monthly renews at the start of next month", func(t *testing.T) {
		assert.Equal(t, date(2026, time.April, 1), RenewalDateFor(models.PlanMonthly, settled))
	})

	t.Run("yearly renews a year from the start of this month", func(t *testing.T) {
		assert.Equal(t, date(2027, time.March, 1), RenewalDateFor(models.PlanYearly, settled))
	})

	t.Run("settling on the first keeps the boundary", func(t *testing.T) {
		assert.Equal(t, date(2026, time.February, 1), RenewalDateFor(models.PlanMonthly, date(2026, time.January, 1)))
	})

	t.Run("december rolls into the next year", func(t *testing.T) {
		assert.Equal(t, date(2027, time.January, 1), RenewalDateFor(models.PlanMonthly, date(2026, time.December, 30)))
	})
}
