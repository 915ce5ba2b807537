package controllers

import (
	"os"
	"time"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-gonic/gin"
)

// AdminLogin authenticates an administrator by email and password
func AdminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request. email and password are required", err.Error())
		return
	}
	utils.LogInfo("Admin login attempt for email: %s", req.Email)

	var admin models.Admin
	if err := config.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		utils.LogError("Admin login failed - not found: %s", req.Email)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}
	if !admin.IsActive {
		utils.Forbidden(c, "Admin account is inactive")
		return
	}
	if !utils.CheckPassword(req.Password, admin.Password) {
		utils.LogError("Admin login failed - wrong password for %s", req.Email)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := utils.GenerateAdminToken(&admin)
	if err != nil {
		utils.LogError("Failed to generate admin token for %s: %v", req.Email, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	config.DB.Model(&admin).Update("last_login", time.Now())

	utils.LogInfo("Admin %d logged in", admin.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"admin": gin.H{
			"id":         admin.ID,
			"email":      admin.Email,
			"first_name": admin.FirstName,
		},
	})
}

// CreateSampleAdmin seeds the default admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no admin exists yet.
func CreateSampleAdmin() error {
	var count int64
	if err := config.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		utils.LogInfo("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.Admin{
		Email:     email,
		Password:  hashed,
		FirstName: "Admin",
		IsActive:  true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		return err
	}
	utils.LogInfo("Seeded admin account %s", email)
	return nil
}
