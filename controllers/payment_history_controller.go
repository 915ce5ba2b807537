package controllers

import (
	"fmt"
	"strconv"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// GetPaymentHistory lists the member's payments, newest first
func GetPaymentHistory(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Payment{}).Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count payments for user %d: %v", user.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}
	pagination.SetTotal(total)

	var payments []models.Payment
	if err := query.Order("created_at DESC").Offset(pagination.Offset).Limit(pagination.Limit).Find(&payments).Error; err != nil {
		utils.LogError("Failed to list payments for user %d: %v", user.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	items := make([]gin.H, 0, len(payments))
	for _, p := range payments {
		items = append(items, gin.H{
			"id":               p.ID,
			"plan":             p.Plan,
			"amount":           p.Amount,
			"amount_display":   fmt.Sprintf("Rs. %d", p.Amount),
			"status":           p.Status,
			"gateway":          p.Gateway,
			"gateway_order_id": p.GatewayOrderID,
			"receipt_id":       p.ReceiptID,
			"created_at":       p.CreatedAt.Format("2006-01-02 15:04"),
			"payment_date":     p.PaymentDate,
		})
	}

	utils.SuccessWithPagination(c, "Payment history retrieved successfully", items, total, pagination.Page, pagination.Limit)
}

// DownloadPaymentReceipt generates a PDF receipt for a settled payment
func DownloadPaymentReceipt(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid payment id", nil)
		return
	}

	var payment models.Payment
	if err := config.DB.Where("id = ? AND user_id = ?", paymentID, user.ID).First(&payment).Error; err != nil {
		utils.NotFound(c, "Payment not found")
		return
	}
	if payment.Status != models.PaymentSuccess {
		utils.BadRequest(c, "Receipts are available only for settled payments", nil)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "UnionSathi")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Workers' Union Membership Portal")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@unionsathi.org")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(70, 8, "Receipt: "+payment.ReceiptID)
	pdf.Ln(8)
	pdf.Cell(70, 8, "Order: "+payment.GatewayOrderID)
	pdf.Ln(8)
	if payment.PaymentDate != nil {
		pdf.Cell(70, 8, "Paid on: "+payment.PaymentDate.Format("2006-01-02 15:04:05"))
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Member:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, user.FirstName+" "+user.LastName)
	pdf.Ln(6)
	pdf.Cell(100, 8, "Phone: "+user.Phone)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(80, 8, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(80, 8, payment.Plan+" membership", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("Rs. %d", payment.Amount), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt_%s.pdf", payment.ReceiptID))
	if err := pdf.Output(c.Writer); err != nil {
		utils.LogError("Failed to write receipt PDF for payment %d: %v", payment.ID, err)
		utils.InternalServerError(c, "Failed to generate receipt", nil)
		return
	}
}
