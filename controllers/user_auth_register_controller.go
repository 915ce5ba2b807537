package controllers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/services"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the signup request body
type RegisterRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	District   string `json:"district"`
	Occupation string `json:"occupation"`
	Locale     string `json:"locale"`
}

// RegistrationData represents signup data parked in the session until the
// OTP check passes. No user row exists before verification.
type RegistrationData struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	District   string `json:"district"`
	Occupation string `json:"occupation"`
	Locale     string `json:"locale"`
	OTP        string `json:"otp"`
	OTPExpires int64  `json:"otp_expires"`
}

// RegisterUser validates a signup request, parks it in the session and sends
// an OTP to the member's phone (and email when provided).
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Signup failed - invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", "Please check your input data and ensure all required fields are provided correctly.")
		return
	}
	utils.LogInfo("Signup attempt for phone: %s", req.Phone)

	if valid, msg := utils.ValidateName(req.FirstName); !valid {
		utils.BadRequest(c, "Invalid first name", msg)
		return
	}
	if req.LastName != "" {
		if valid, msg := utils.ValidateName(req.LastName); !valid {
			utils.BadRequest(c, "Invalid last name", msg)
			return
		}
	}

	valid, phone := utils.ValidatePhone(req.Phone)
	if !valid {
		utils.LogError("Signup failed - invalid phone: %s", req.Phone)
		utils.BadRequest(c, "Invalid phone", utils.ErrInvalidPhone)
		return
	}

	if req.Email != "" {
		if ok, msg := utils.ValidateEmail(req.Email); !ok {
			utils.BadRequest(c, "Invalid email", msg)
			return
		}
	}

	if req.Password != "" {
		if ok, msg := utils.ValidatePassword(req.Password); !ok {
			utils.BadRequest(c, "Invalid password", msg)
			return
		}
	}

	locale := req.Locale
	if locale == "" {
		locale = utils.DefaultLocale
	}
	if ok, msg := utils.ValidateLocale(locale, models.SupportedLocales); !ok {
		utils.BadRequest(c, "Invalid locale", msg)
		return
	}

	var existing models.User
	if err := config.DB.Where("phone = ?", phone).First(&existing).Error; err == nil {
		utils.LogError("Signup failed - phone already registered: %s", phone)
		utils.Conflict(c, "This phone number is already registered", nil)
		return
	}

	otp := generateOTP()
	data := RegistrationData{
		FirstName:  utils.SanitizeString(req.FirstName),
		LastName:   utils.SanitizeString(req.LastName),
		Phone:      phone,
		Email:      req.Email,
		Password:   req.Password,
		District:   utils.SanitizeString(req.District),
		Occupation: utils.SanitizeString(req.Occupation),
		Locale:     locale,
		OTP:        otp,
		OTPExpires: time.Now().Add(10 * time.Minute).Unix(),
	}

	session := sessions.Default(c)
	session.Set("registration", data)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save registration session for %s: %v", phone, err)
		utils.InternalServerError(c, "Failed to start registration", nil)
		return
	}

	if err := utils.DefaultOTPSender.SendOTP(phone, otp); err != nil {
		utils.LogError("Failed to send OTP to %s: %v", phone, err)
		utils.InternalServerError(c, "Failed to send OTP", nil)
		return
	}
	if req.Email != "" {
		if err := utils.SendOTPEmail(req.Email, otp); err != nil {
			// Phone is the primary channel; a failed email copy is not fatal.
			utils.LogError("Failed to send OTP email to %s: %v", req.Email, err)
		}
	}

	utils.LogInfo("OTP sent for signup, phone: %s", phone)
	utils.Success(c, utils.MsgOTPSent, gin.H{"phone": phone})
}

// VerifySignupOTP checks the signup OTP and creates the member account with
// a pending subscription.
func VerifySignupOTP(c *gin.Context) {
	var req struct {
		OTP string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. otp is required", err.Error())
		return
	}

	session := sessions.Default(c)
	val := session.Get("registration")
	data, ok := val.(RegistrationData)
	if !ok {
		utils.LogError("Signup verification without registration session")
		utils.BadRequest(c, "No registration in progress. Please sign up again.", nil)
		return
	}

	if time.Now().Unix() > data.OTPExpires {
		utils.LogError("Signup OTP expired for phone: %s", data.Phone)
		utils.BadRequest(c, "OTP has expired. Please sign up again.", nil)
		return
	}
	if !utils.ValidateOTP(req.OTP) || req.OTP != data.OTP {
		utils.LogError("Signup OTP mismatch for phone: %s", data.Phone)
		utils.BadRequest(c, "Invalid OTP", nil)
		return
	}

	user := models.User{
		FirstName:          data.FirstName,
		LastName:           data.LastName,
		Phone:              data.Phone,
		Email:              data.Email,
		District:           data.District,
		Occupation:         data.Occupation,
		PreferredLocale:    data.Locale,
		IsVerified:         true,
		SubscriptionStatus: models.SubscriptionPending,
	}
	if data.Password != "" {
		hashed, err := utils.HashPassword(data.Password)
		if err != nil {
			utils.LogError("Failed to hash password for phone %s: %v", data.Phone, err)
			utils.InternalServerError(c, "Failed to create account", nil)
			return
		}
		user.Password = hashed
	}

	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user for phone %s: %v", data.Phone, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	session.Delete("registration")
	_ = session.Save()

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for new user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Account created but login failed. Please login.", nil)
		return
	}

	if sessionStore != nil {
		sessionStore.Publish(services.SessionEvent{UserID: user.ID, Type: services.EventLogin})
	}

	utils.LogInfo("User %d created for phone %s", user.ID, user.Phone)
	utils.Created(c, utils.MsgRegisterSuccess, gin.H{
		"token": token,
		"user": gin.H{
			"id":                  user.ID,
			"first_name":          user.FirstName,
			"last_name":           user.LastName,
			"phone":               user.Phone,
			"subscription_status": user.SubscriptionStatus,
		},
	})
}

// generateOTP returns a 6-digit one-time password
func generateOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
