package controllers

import (
	"time"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/services"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-gonic/gin"
)

// GetProfile returns the authenticated member's profile along with the
// current quote for both plans, so the UI can render the payment card
// without a second round trip.
func GetProfile(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	now := time.Now()
	quotes := gin.H{}
	for _, plan := range []string{models.PlanMonthly, models.PlanYearly} {
		if q, err := services.ComputeQuote(plan, user.SubscriptionStatus, user.SubscriptionAnchor(), now); err == nil {
			quotes[plan] = q
		}
	}

	utils.Success(c, "Profile retrieved successfully", gin.H{
		"user": gin.H{
			"id":               user.ID,
			"first_name":       user.FirstName,
			"last_name":        user.LastName,
			"phone":            user.Phone,
			"email":            user.Email,
			"district":         user.District,
			"occupation":       user.Occupation,
			"preferred_locale": user.PreferredLocale,
			"profile_image":    user.ProfileImage,
			"member_since":     user.CreatedAt.Format("2006-01-02"),
		},
		"subscription": gin.H{
			"status":       user.SubscriptionStatus,
			"plan":         user.SubscriptionPlan,
			"renewal_date": user.RenewalDate,
		},
		"quotes": quotes,
	})
}

// UpdateProfileRequest represents the editable profile fields
type UpdateProfileRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	District   string `json:"district"`
	Occupation string `json:"occupation"`
	Locale     string `json:"locale"`
}

// UpdateProfile updates the member's editable fields. Phone and email
// changes go through their own OTP-verified flows; subscription fields are
// owned by the payment services and never writable here.
func UpdateProfile(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		if valid, msg := utils.ValidateName(req.FirstName); !valid {
			utils.BadRequest(c, "Invalid first name", msg)
			return
		}
		updates["first_name"] = utils.SanitizeString(req.FirstName)
	}
	if req.LastName != "" {
		if valid, msg := utils.ValidateName(req.LastName); !valid {
			utils.BadRequest(c, "Invalid last name", msg)
			return
		}
		updates["last_name"] = utils.SanitizeString(req.LastName)
	}
	if req.District != "" {
		updates["district"] = utils.SanitizeString(req.District)
	}
	if req.Occupation != "" {
		updates["occupation"] = utils.SanitizeString(req.Occupation)
	}
	if req.Locale != "" {
		if ok, msg := utils.ValidateLocale(req.Locale, models.SupportedLocales); !ok {
			utils.BadRequest(c, "Invalid locale", msg)
			return
		}
		updates["preferred_locale"] = req.Locale
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update", nil)
		return
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update profile for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update profile", nil)
		return
	}

	utils.LogInfo("Profile updated for user %d", user.ID)
	utils.Success(c, utils.MsgUpdateSuccess, gin.H{"updated": updates})
}
