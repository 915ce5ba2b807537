package controllers

import (
	"time"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/services"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-gonic/gin"
)

// LoginUser authenticates a member by phone and password
func LoginUser(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. phone and password are required", err.Error())
		return
	}

	valid, phone := utils.ValidatePhone(req.Phone)
	if !valid {
		utils.BadRequest(c, "Invalid phone", utils.ErrInvalidPhone)
		return
	}
	utils.LogInfo("Login attempt for phone: %s", phone)

	var user models.User
	if err := config.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		utils.LogError("Login failed - user not found for phone: %s", phone)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}
	if user.IsBlocked {
		utils.LogError("Login attempt by blocked user %d", user.ID)
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}
	if user.Password == "" || !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login failed - wrong password for user %d", user.ID)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	config.DB.Model(&user).Update("last_login_at", time.Now())
	if sessionStore != nil {
		sessionStore.Publish(services.SessionEvent{UserID: user.ID, Type: services.EventLogin})
	}

	utils.LogInfo("User %d logged in", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"user": gin.H{
			"id":                  user.ID,
			"first_name":          user.FirstName,
			"last_name":           user.LastName,
			"phone":               user.Phone,
			"subscription_status": user.SubscriptionStatus,
			"subscription_plan":   user.SubscriptionPlan,
			"renewal_date":        user.RenewalDate,
		},
	})
}

// RequestLoginOTP issues an OTP so a member can log in without a password
func RequestLoginOTP(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. phone is required", err.Error())
		return
	}

	valid, phone := utils.ValidatePhone(req.Phone)
	if !valid {
		utils.BadRequest(c, "Invalid phone", utils.ErrInvalidPhone)
		return
	}

	var user models.User
	if err := config.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		utils.LogError("OTP login requested for unknown phone: %s", phone)
		utils.NotFound(c, "No account found for this phone number")
		return
	}
	if user.IsBlocked {
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	otp := generateOTP()
	record := models.UserOTP{
		UserID:    user.ID,
		Code:      otp,
		Purpose:   "login",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	// One live login OTP per user.
	config.DB.Where("user_id = ? AND purpose = ?", user.ID, "login").Delete(&models.UserOTP{})
	if err := config.DB.Create(&record).Error; err != nil {
		utils.LogError("Failed to store login OTP for user %d: %v", user.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	if err := utils.DefaultOTPSender.SendOTP(phone, otp); err != nil {
		utils.LogError("Failed to send login OTP to %s: %v", phone, err)
		utils.InternalServerError(c, "Failed to send OTP", nil)
		return
	}

	utils.Success(c, utils.MsgOTPSent, gin.H{"phone": phone})
}

// VerifyLoginOTP completes an OTP login
func VerifyLoginOTP(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. phone and otp are required", err.Error())
		return
	}

	valid, phone := utils.ValidatePhone(req.Phone)
	if !valid {
		utils.BadRequest(c, "Invalid phone", utils.ErrInvalidPhone)
		return
	}

	var user models.User
	if err := config.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}
	if user.IsBlocked {
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	var record models.UserOTP
	if err := config.DB.Where("user_id = ? AND purpose = ?", user.ID, "login").First(&record).Error; err != nil {
		utils.BadRequest(c, "No OTP requested. Please request a new OTP.", nil)
		return
	}
	if time.Now().After(record.ExpiresAt) {
		config.DB.Delete(&record)
		utils.BadRequest(c, "OTP has expired. Please request a new OTP.", nil)
		return
	}
	if record.Attempts >= utils.MaxOTPAttempts {
		config.DB.Delete(&record)
		utils.BadRequest(c, "Too many attempts. Please request a new OTP.", nil)
		return
	}
	if !utils.ValidateOTP(req.OTP) || req.OTP != record.Code {
		config.DB.Model(&record).Update("attempts", record.Attempts+1)
		utils.LogError("Login OTP mismatch for user %d", user.ID)
		utils.BadRequest(c, "Invalid OTP", nil)
		return
	}

	config.DB.Delete(&record)

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	config.DB.Model(&user).Update("last_login_at", time.Now())
	if sessionStore != nil {
		sessionStore.Publish(services.SessionEvent{UserID: user.ID, Type: services.EventLogin})
	}

	utils.LogInfo("User %d logged in via OTP", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"user": gin.H{
			"id":                  user.ID,
			"first_name":          user.FirstName,
			"phone":               user.Phone,
			"subscription_status": user.SubscriptionStatus,
		},
	})
}

// UserLogout publishes the logout event. Tokens are stateless; clients drop
// them on logout.
func UserLogout(c *gin.Context) {
	if userVal, exists := c.Get("user"); exists {
		if user, ok := userVal.(models.User); ok && sessionStore != nil {
			sessionStore.Publish(services.SessionEvent{UserID: user.ID, Type: services.EventLogout})
		}
	}
	utils.Success(c, utils.MsgLogoutSuccess, nil)
}
