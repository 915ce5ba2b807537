package controllers

import (
	"fmt"
	"strconv"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

func memberListQuery(c *gin.Context) *gorm.DB {
	query := config.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone LIKE ?", like, like, like)
	}
	if status := c.Query("subscription_status"); status != "" {
		query = query.Where("subscription_status = ?", status)
	}
	if plan := c.Query("plan"); plan != "" {
		query = query.Where("subscription_plan = ?", plan)
	}
	if district := c.Query("district"); district != "" {
		query = query.Where("district = ?", district)
	}
	if blocked := c.Query("blocked"); blocked != "" {
		query = query.Where("is_blocked = ?", blocked == "true")
	}
	return query
}

// AdminListMembers lists members with search, filters and pagination
func AdminListMembers(c *gin.Context) {
	pagination := utils.NewPagination(c)
	query := memberListQuery(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count members: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}
	pagination.SetTotal(total)

	var users []models.User
	if err := query.Order("created_at DESC").Offset(pagination.Offset).Limit(pagination.Limit).Find(&users).Error; err != nil {
		utils.LogError("Failed to list members: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	items := make([]gin.H, 0, len(users))
	for _, u := range users {
		items = append(items, gin.H{
			"id":                  u.ID,
			"name":                u.FirstName + " " + u.LastName,
			"phone":               u.Phone,
			"email":               u.Email,
			"district":            u.District,
			"subscription_status": u.SubscriptionStatus,
			"subscription_plan":   u.SubscriptionPlan,
			"renewal_date":        u.RenewalDate,
			"is_blocked":          u.IsBlocked,
			"member_since":        u.CreatedAt.Format("2006-01-02"),
		})
	}

	utils.SuccessWithPagination(c, "Members retrieved successfully", items, total, pagination.Page, pagination.Limit)
}

// AdminBlockMember toggles a member's blocked state
func AdminBlockMember(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid member id", nil)
		return
	}

	var req struct {
		Blocked bool `json:"blocked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, memberID).Error; err != nil {
		utils.NotFound(c, "Member not found")
		return
	}

	if err := config.DB.Model(&user).Update("is_blocked", req.Blocked).Error; err != nil {
		utils.LogError("Failed to update blocked state for member %d: %v", user.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	utils.LogInfo("Member %d blocked=%v", user.ID, req.Blocked)
	utils.Success(c, utils.MsgUpdateSuccess, gin.H{"id": user.ID, "is_blocked": req.Blocked})
}

// AdminExportMembers exports the filtered member roll as a spreadsheet
func AdminExportMembers(c *gin.Context) {
	var users []models.User
	if err := memberListQuery(c).Order("created_at DESC").Find(&users).Error; err != nil {
		utils.LogError("Failed to load members for export: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Members")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("UNIONSATHI - Member Roll")
	sheet.AddRow() // spacing

	headers := []string{"ID", "Name", "Phone", "Email", "District", "Occupation", "Status", "Plan", "Renewal Date", "Member Since"}
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

	for _, u := range users {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(u.ID))
		row.AddCell().SetString(u.FirstName + " " + u.LastName)
		row.AddCell().SetString(u.Phone)
		row.AddCell().SetString(u.Email)
		row.AddCell().SetString(u.District)
		row.AddCell().SetString(u.Occupation)
		row.AddCell().SetString(u.SubscriptionStatus)
		row.AddCell().SetString(u.SubscriptionPlan)
		if u.RenewalDate != nil {
			row.AddCell().SetString(u.RenewalDate.Format("2006-01-02"))
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(u.CreatedAt.Format("2006-01-02"))
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=members_%d.xlsx", len(users)))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", nil)
		return
	}
}
