package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	// BaseURL is the externally reachable origin used to build gateway
	// return URLs, e.g. https://portal.example.org
	BaseURL string

	RazorpayKey    string
	RazorpaySecret string

	CashfreeClientID     string
	CashfreeClientSecret string
	CashfreeBaseURL      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// A missing .env file is fine in deployed environments where the
	// variables come from the process environment.
	_ = godotenv.Load()

	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "unionsathi"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		RazorpayKey:    os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret: os.Getenv("RAZORPAY_SECRET"),

		CashfreeClientID:     os.Getenv("CASHFREE_CLIENT_ID"),
		CashfreeClientSecret: os.Getenv("CASHFREE_CLIENT_SECRET"),
		CashfreeBaseURL:      getEnv("CASHFREE_BASE_URL", "https://sandbox.cashfree.com"),
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
