package controllers

import (
	"fmt"
	"time"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

func paymentListQuery(c *gin.Context) *gorm.DB {
	query := config.DB.Model(&models.Payment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if plan := c.Query("plan"); plan != "" {
		query = query.Where("plan = ?", plan)
	}
	if gw := c.Query("gateway"); gw != "" {
		query = query.Where("gateway = ?", gw)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}
	return query
}

// AdminListPayments lists the payment ledger with filters and pagination
func AdminListPayments(c *gin.Context) {
	pagination := utils.NewPagination(c)
	query := paymentListQuery(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count payments: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}
	pagination.SetTotal(total)

	var payments []models.Payment
	if err := query.Order("created_at DESC").Offset(pagination.Offset).Limit(pagination.Limit).Find(&payments).Error; err != nil {
		utils.LogError("Failed to list payments: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	items := make([]gin.H, 0, len(payments))
	for _, p := range payments {
		items = append(items, gin.H{
			"id":               p.ID,
			"user_id":          p.UserID,
			"plan":             p.Plan,
			"amount":           p.Amount,
			"status":           p.Status,
			"gateway":          p.Gateway,
			"gateway_order_id": p.GatewayOrderID,
			"receipt_id":       p.ReceiptID,
			"created_at":       p.CreatedAt.Format("2006-01-02 15:04"),
			"payment_date":     p.PaymentDate,
		})
	}

	utils.SuccessWithPagination(c, "Payments retrieved successfully", items, total, pagination.Page, pagination.Limit)
}

// AdminExportPayments exports the filtered payment ledger as a spreadsheet
// with a settled-revenue summary.
func AdminExportPayments(c *gin.Context) {
	var payments []models.Payment
	if err := paymentListQuery(c).Order("created_at DESC").Find(&payments).Error; err != nil {
		utils.LogError("Failed to load payments for export: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	var settledCount int64
	var settledRevenue int64
	for _, p := range payments {
		if p.Status == models.PaymentSuccess {
			settledCount++
			settledRevenue += p.Amount
		}
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Payments")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("UNIONSATHI - Payment Ledger")
	sheet.AddRow() // spacing

	headers := []string{"ID", "User ID", "Plan", "Amount", "Status", "Gateway", "Gateway Order ID", "Receipt", "Created", "Settled"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, p := range payments {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetInt(int(p.UserID))
		row.AddCell().SetString(p.Plan)
		row.AddCell().SetInt(int(p.Amount))
		row.AddCell().SetString(p.Status)
		row.AddCell().SetString(p.Gateway)
		row.AddCell().SetString(p.GatewayOrderID)
		row.AddCell().SetString(p.ReceiptID)
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04"))
		if p.PaymentDate != nil {
			row.AddCell().SetString(p.PaymentDate.Format("2006-01-02 15:04"))
		} else {
			row.AddCell().SetString("")
		}
	}

	sheet.AddRow() // spacing
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Records", fmt.Sprintf("%d", len(payments))},
		{"Settled Payments", fmt.Sprintf("%d", settledCount)},
		{"Settled Revenue", fmt.Sprintf("Rs. %d", settledRevenue)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=payments_ledger.xlsx")
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", nil)
		return
	}
}
