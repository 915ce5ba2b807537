package controllers

import (
	"time"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequestEmailChange sends an OTP to the new email address. The change is
// applied only after VerifyEmailChange confirms the code.
func RequestEmailChange(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. email is required", err.Error())
		return
	}
	if ok, msg := utils.ValidateEmail(req.Email); !ok {
		utils.BadRequest(c, "Invalid email", msg)
		return
	}
	if req.Email == user.Email {
		utils.BadRequest(c, "This is already your email address", nil)
		return
	}

	var other models.User
	if err := config.DB.Where("email = ? AND id <> ?", req.Email, user.ID).First(&other).Error; err == nil {
		utils.Conflict(c, "This email is already in use", nil)
		return
	}

	otp := generateOTP()
	record := models.UserOTP{
		UserID:    user.ID,
		Code:      otp,
		Purpose:   "email_change",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	config.DB.Where("user_id = ? AND purpose = ?", user.ID, "email_change").Delete(&models.UserOTP{})
	if err := config.DB.Create(&record).Error; err != nil {
		utils.LogError("Failed to store email change OTP for user %d: %v", user.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	if err := utils.SendOTPEmail(req.Email, otp); err != nil {
		utils.LogError("Failed to send email change OTP to %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send OTP", nil)
		return
	}

	session := sessions.Default(c)
	session.Set("pending_email", req.Email)
	_ = session.Save()

	utils.LogInfo("Email change OTP sent for user %d", user.ID)
	utils.Success(c, utils.MsgOTPSent, gin.H{"email": req.Email})
}

// VerifyEmailChange applies the pending email change after the OTP matches
func VerifyEmailChange(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req struct {
		OTP string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. otp is required", err.Error())
		return
	}

	session := sessions.Default(c)
	pending, ok := session.Get("pending_email").(string)
	if !ok || pending == "" {
		utils.BadRequest(c, "No email change in progress", nil)
		return
	}

	var record models.UserOTP
	if err := config.DB.Where("user_id = ? AND purpose = ?", user.ID, "email_change").First(&record).Error; err != nil {
		utils.BadRequest(c, "No OTP requested. Please request the change again.", nil)
		return
	}
	if time.Now().After(record.ExpiresAt) {
		config.DB.Delete(&record)
		utils.BadRequest(c, "OTP has expired. Please request the change again.", nil)
		return
	}
	if record.Attempts >= utils.MaxOTPAttempts {
		config.DB.Delete(&record)
		utils.BadRequest(c, "Too many attempts. Please request the change again.", nil)
		return
	}
	if !utils.ValidateOTP(req.OTP) || req.OTP != record.Code {
		config.DB.Model(&record).Update("attempts", record.Attempts+1)
		utils.BadRequest(c, "Invalid OTP", nil)
		return
	}

	config.DB.Delete(&record)
	if err := config.DB.Model(&user).Update("email", pending).Error; err != nil {
		utils.LogError("Failed to update email for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update email", nil)
		return
	}

	session.Delete("pending_email")
	_ = session.Save()

	utils.LogInfo("Email updated for user %d", user.ID)
	utils.Success(c, utils.MsgUpdateSuccess, gin.H{"email": pending})
}
