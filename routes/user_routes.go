package routes

import (
	"github.com/avinash-ch/UnionSathi/controllers"
	"github.com/avinash-ch/UnionSathi/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all member-facing routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes (no authentication required)
	router.POST("/register", controllers.RegisterUser)
	router.POST("/verify-otp", controllers.VerifySignupOTP)
	router.POST("/login", controllers.LoginUser)
	router.POST("/login/otp", controllers.RequestLoginOTP)
	router.POST("/login/otp/verify", controllers.VerifyLoginOTP)

	// Protected routes (require authentication)
	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", controllers.UserLogout)

		// Profile
		protected.GET("/profile", controllers.GetProfile)
		protected.PUT("/profile", controllers.UpdateProfile)
		protected.POST("/profile/image", controllers.UploadProfileImage)
		protected.POST("/profile/email", controllers.RequestEmailChange)
		protected.POST("/profile/email/verify", controllers.VerifyEmailChange)

		// Membership and payments
		protected.GET("/membership/quote", controllers.GetMembershipQuote)
		protected.POST("/membership/checkout", controllers.CreateMembershipOrder)
		protected.POST("/payments/verify", controllers.VerifyPayment)
		protected.GET("/payments", controllers.GetPaymentHistory)
		protected.GET("/payments/:id/receipt", controllers.DownloadPaymentReceipt)
	}
}
