package controllers

import (
	"errors"
	"time"

	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/services"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-gonic/gin"
)

// GetMembershipQuote prices a plan for the authenticated member. The quote
// is derived state; the same computation runs again, authoritatively, when
// the order is created.
func GetMembershipQuote(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	plan := c.DefaultQuery("plan", models.PlanMonthly)
	quote, err := services.ComputeQuote(plan, user.SubscriptionStatus, user.SubscriptionAnchor(), time.Now())
	if err != nil {
		utils.BadRequest(c, utils.ErrInvalidPlan, nil)
		return
	}

	utils.Success(c, "Quote computed successfully", gin.H{
		"quote":               quote,
		"subscription_status": user.SubscriptionStatus,
	})
}

// CheckoutRequest represents the checkout request body. Amount is what the
// client displayed to the member; the server recomputes and rejects a
// mismatch rather than charging a stale figure.
type CheckoutRequest struct {
	Plan    string `json:"plan" binding:"required"`
	Amount  int64  `json:"amount"`
	Gateway string `json:"gateway"`
	Locale  string `json:"locale"`
}

// CreateMembershipOrder opens a checkout session for a membership payment
// and starts the background reconciler for the order.
func CreateMembershipOrder(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. plan is required", err.Error())
		return
	}
	utils.LogInfo("Checkout requested by user %d: plan=%s gateway=%s", user.ID, req.Plan, req.Gateway)

	gatewayName := req.Gateway
	if gatewayName == "" {
		gatewayName = "razorpay"
	}
	locale := req.Locale
	if locale == "" {
		locale = user.PreferredLocale
	}

	result, err := orderService.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		UserID:  user.ID,
		Plan:    req.Plan,
		Amount:  req.Amount,
		Gateway: gatewayName,
		Locale:  locale,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPlan):
			utils.BadRequest(c, utils.ErrInvalidPlan, nil)
		case errors.Is(err, services.ErrAmountMismatch):
			utils.BadRequest(c, "The displayed amount is out of date. Please refresh and try again.", nil)
		case errors.Is(err, services.ErrInvalidAmount):
			utils.BadRequest(c, utils.ErrInvalidAmount, nil)
		case errors.Is(err, services.ErrInvalidPhone):
			utils.BadRequest(c, "Please add a valid 10-digit phone number to your profile before paying.", nil)
		case errors.Is(err, services.ErrInvalidEmail):
			utils.BadRequest(c, utils.ErrInvalidEmail, nil)
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFound(c, "User not found")
		case errors.Is(err, services.ErrUserBlocked):
			utils.Forbidden(c, utils.ErrUserBlocked)
		case errors.Is(err, services.ErrUnknownGateway):
			utils.BadRequest(c, "Unknown payment gateway", nil)
		case errors.Is(err, services.ErrGatewayFailure):
			utils.ServiceUnavailable(c, utils.ErrPaymentUnavailable)
		default:
			utils.LogError("Checkout failed for user %d: %v", user.ID, err)
			utils.InternalServerError(c, utils.ErrInternalServer, nil)
		}
		return
	}

	// Settlement usually arrives while the member is still on the gateway
	// page; the reconciler picks it up even if they never return to ours.
	reconciler.WatchAsync(result.Session.OrderID)

	utils.Success(c, "Checkout session created", gin.H{
		"session": result.Session,
		"quote":   result.Quote,
		"payment": gin.H{
			"id":               result.Payment.ID,
			"gateway_order_id": result.Payment.GatewayOrderID,
			"amount":           result.Payment.Amount,
			"status":           result.Payment.Status,
		},
		"user": gin.H{
			"name":  user.FirstName + " " + user.LastName,
			"phone": user.Phone,
			"email": user.Email,
		},
	})
}
