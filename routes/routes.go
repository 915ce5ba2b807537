package routes

import (
	"os"

	"github.com/avinash-ch/UnionSathi/controllers"
	"github.com/avinash-ch/UnionSathi/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "unionsathi-dev-secret"
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 15, // registration and email-change OTPs live at most 15 minutes
		Path:     "/",
		Secure:   false, // set to true behind HTTPS
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("unionsathi", store))

	router.Static("/uploads", "./uploads")

	// Auth routes (for OAuth)
	auth := router.Group("/auth")
	{
		auth.GET("/google/login", controllers.GoogleLogin)
		auth.GET("/google/callback", controllers.GoogleCallback)
	}

	// Gateway return landing page, locale-prefixed so the member comes
	// back to the language they checked out in.
	router.GET("/:locale/payments/status", controllers.PaymentStatusPage)

	// API version group
	api := router.Group("/v1")
	{
		initUserRoutes(api)
		initAdminRoutes(api)
	}

	return router
}
