package routes

import (
	"github.com/avinash-ch/UnionSathi/controllers"
	"github.com/avinash-ch/UnionSathi/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", controllers.AdminLogin)

		// Protected admin routes
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.GET("/dashboard", controllers.AdminDashboard)

			// Member management
			admin.GET("/members", controllers.AdminListMembers)
			admin.PATCH("/members/:id/block", controllers.AdminBlockMember)
			admin.GET("/members/export", controllers.AdminExportMembers)

			// Payment ledger
			admin.GET("/payments", controllers.AdminListPayments)
			admin.GET("/payments/export", controllers.AdminExportPayments)
		}
	}
}
