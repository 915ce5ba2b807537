package controllers

import (
	"time"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/services"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-gonic/gin"
)

// AdminDashboard returns membership and revenue statistics
func AdminDashboard(c *gin.Context) {
	db := config.DB

	var totalMembers int64
	db.Model(&models.User{}).Count(&totalMembers)

	statusCounts := map[string]int64{}
	for _, status := range []string{
		models.SubscriptionPending,
		models.SubscriptionActive,
		models.SubscriptionInactive,
		models.SubscriptionCancelled,
	} {
		var n int64
		db.Model(&models.User{}).Where("subscription_status = ?", status).Count(&n)
		statusCounts[status] = n
	}

	planCounts := map[string]int64{}
	for _, plan := range []string{models.PlanMonthly, models.PlanYearly} {
		var n int64
		db.Model(&models.User{}).
			Where("subscription_status = ? AND subscription_plan = ?", models.SubscriptionActive, plan).
			Count(&n)
		planCounts[plan] = n
	}

	monthStart := services.StartOfMonth(time.Now())
	var revenueThisMonth, revenueTotal int64
	db.Model(&models.Payment{}).
		Where("status = ? AND payment_date >= ?", models.PaymentSuccess, monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenueThisMonth)
	db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentSuccess).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenueTotal)

	var pendingPayments, failedPayments int64
	db.Model(&models.Payment{}).Where("status = ?", models.PaymentPending).Count(&pendingPayments)
	db.Model(&models.Payment{}).Where("status = ?", models.PaymentFailed).Count(&failedPayments)

	// Members due for renewal in the next 30 days.
	var renewalsDue int64
	db.Model(&models.User{}).
		Where("subscription_status = ? AND renewal_date BETWEEN ? AND ?",
			models.SubscriptionActive, time.Now(), time.Now().AddDate(0, 0, 30)).
		Count(&renewalsDue)

	utils.Success(c, "Dashboard stats retrieved successfully", gin.H{
		"members": gin.H{
			"total":        totalMembers,
			"by_status":    statusCounts,
			"active_plans": planCounts,
			"renewals_due": renewalsDue,
		},
		"revenue": gin.H{
			"this_month": revenueThisMonth,
			"total":      revenueTotal,
		},
		"payments": gin.H{
			"pending": pendingPayments,
			"failed":  failedPayments,
		},
	})
}
