package controllers

import (
	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-gonic/gin"
)

// UploadProfileImage replaces the member's profile image
func UploadProfileImage(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	file, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "Image file is required", err.Error())
		return
	}

	path, err := utils.SaveUploadedFile(file, "uploads")
	if err != nil {
		utils.LogError("Profile image upload failed for user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid image file", err.Error())
		return
	}

	oldImage := user.ProfileImage
	if err := config.DB.Model(&user).Update("profile_image", path).Error; err != nil {
		utils.LogError("Failed to save profile image path for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update profile image", nil)
		return
	}

	if oldImage != "" {
		if err := utils.DeleteFile(oldImage); err != nil {
			utils.LogDebug("Could not remove old profile image %s: %v", oldImage, err)
		}
	}

	utils.LogInfo("Profile image updated for user %d", user.ID)
	utils.Success(c, utils.MsgUploadSuccess, gin.H{"profile_image": path})
}
