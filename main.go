package main

import (
	"encoding/gob"
	"log"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/controllers"
	"github.com/avinash-ch/UnionSathi/gateway"
	"github.com/avinash-ch/UnionSathi/routes"
	"github.com/avinash-ch/UnionSathi/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Register types for session serialization
	gob.Register(controllers.RegistrationData{})

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Create sample admin
	if err := controllers.CreateSampleAdmin(); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	// Initialize Google OAuth
	config.InitGoogleOAuth()

	// Wire payment gateways
	gateways := gateway.Registry{}
	if cfg.RazorpayKey != "" {
		gateways["razorpay"] = gateway.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret)
	}
	if cfg.CashfreeClientID != "" {
		gateways["cashfree"] = gateway.NewCashfreeGateway(cfg.CashfreeClientID, cfg.CashfreeClientSecret, cfg.CashfreeBaseURL)
	}
	if len(gateways) == 0 {
		utils.LogInfo("No payment gateway credentials configured, checkout will be unavailable")
	}

	controllers.InitServices(config.DB, gateways, cfg.BaseURL)

	// Set up router
	router := routes.SetupRouter()

	utils.LogInfo("Server starting on port %s", cfg.Port)
	// Start server
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
