package controllers

import (
	"net/http"

	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/services"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-gonic/gin"
)

// VerifyPaymentRequest represents a manual verification request. The
// razorpay_* fields are present only when the widget posted its signed
// callback; status-page polls send just the order id.
type VerifyPaymentRequest struct {
	OrderID           string `json:"order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// VerifyPayment reconciles an order on demand: the widget callback, the
// member's "check now" button and the status page all land here.
func VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. order_id is required", err.Error())
		return
	}

	var attest *services.PaymentAttestation
	if req.RazorpayPaymentID != "" || req.RazorpaySignature != "" {
		attest = &services.PaymentAttestation{
			PaymentID: req.RazorpayPaymentID,
			Signature: req.RazorpaySignature,
		}
	}

	result := verifyService.Verify(c.Request.Context(), req.OrderID, attest)
	respondVerifyResult(c, req.OrderID, result)
}

// PaymentStatusPage handles the gateway return URL
// /{locale}/payments/status?order_id=... and triggers one verification.
func PaymentStatusPage(c *gin.Context) {
	locale := c.Param("locale")
	if ok, _ := utils.ValidateLocale(locale, models.SupportedLocales); !ok {
		utils.BadRequest(c, utils.ErrInvalidLocale, nil)
		return
	}

	orderID := c.Query("order_id")
	if orderID == "" {
		utils.BadRequest(c, "Invalid request. order_id is required", nil)
		return
	}

	result := verifyService.Verify(c.Request.Context(), orderID, nil)
	respondVerifyResult(c, orderID, result)
}

// respondVerifyResult maps verification outcomes onto the response
// envelope. Every failure keeps a retry path or a support escape hatch that
// includes the order id.
func respondVerifyResult(c *gin.Context, orderID string, result services.VerifyResult) {
	data := gin.H{
		"order_id": orderID,
		"outcome":  result.Outcome,
	}
	if result.Payment != nil {
		data["payment"] = gin.H{
			"status":       result.Payment.Status,
			"plan":         result.Payment.Plan,
			"amount":       result.Payment.Amount,
			"payment_date": result.Payment.PaymentDate,
		}
	}

	switch result.Outcome {
	case services.OutcomeSettledSuccess, services.OutcomeAlreadySettled:
		data["redirect"] = "/dashboard"
		utils.Success(c, result.Message, data)
	case services.OutcomePending:
		data["retry_after_seconds"] = int(services.DefaultPollInterval.Seconds())
		utils.Success(c, result.Message, data)
	case services.OutcomeNotFound:
		data["support"] = gin.H{"order_id": orderID}
		utils.Error(c, http.StatusNotFound, result.Message, data)
	case services.OutcomeFailed:
		data["retry"] = gin.H{"new_order": "/v1/user/membership/checkout"}
		utils.Error(c, http.StatusUnprocessableEntity, result.Message, data)
	default:
		data["retry"] = true
		utils.Error(c, http.StatusServiceUnavailable, result.Message, data)
	}
}
