package utils

// Application constants
const (
	// Application name
	AppName = "UnionSathi"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// Default database host
	DefaultDBHost = "localhost"

	// Default database port
	DefaultDBPort = "5432"

	// Default database name
	DefaultDBName = "unionsathi"

	// JWT token expiration (24 hours)
	JWTExpiration = "24h"

	// OTP expiration (10 minutes)
	OTPExpiration = "10m"

	// Maximum OTP attempts before the code is invalidated
	MaxOTPAttempts = 5

	// Maximum file size for profile image uploads (5MB)
	MaxFileSize = 5 * 1024 * 1024

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Minimum password length
	MinPasswordLength = 8

	// Maximum password length
	MaxPasswordLength = 32

	// Minimum name length
	MinNameLength = 2

	// Maximum name length
	MaxNameLength = 50

	// Default locale for gateway return URLs
	DefaultLocale = "en"
)

// Error messages
const (
	// Authentication errors
	ErrInvalidCredentials = "Invalid phone number or password"
	ErrUserBlocked        = "Your account has been blocked"
	ErrInvalidToken       = "Invalid or expired token"
	ErrUnauthorized       = "Unauthorized access"

	// Validation errors
	ErrInvalidEmail  = "Invalid email format"
	ErrInvalidPhone  = "Phone number must be a 10-digit mobile number"
	ErrInvalidAmount = "Amount must be a positive whole rupee value"
	ErrInvalidPlan   = "Plan must be monthly or yearly"
	ErrInvalidLocale = "Unsupported locale"

	// Payment errors
	ErrPaymentUnavailable = "Payment service temporarily unavailable. Please try again."

	// Database errors
	ErrRecordNotFound = "Record not found"

	// Server errors
	ErrInternalServer = "Internal server error"
)

// Success messages
const (
	MsgLoginSuccess    = "Login successful"
	MsgLogoutSuccess   = "Logout successful"
	MsgRegisterSuccess = "Registration successful"
	MsgOTPSent         = "OTP sent successfully"
	MsgOTPVerified     = "OTP verified successfully"
	MsgUpdateSuccess   = "Updated successfully"
	MsgUploadSuccess   = "File uploaded successfully"
)
