package utils

// OTPSender delivers one-time passwords to a member's phone. The actual SMS
// provider is an external collaborator; deployments plug in their own
// implementation.
type OTPSender interface {
	SendOTP(phone, code string) error
}

// LogOTPSender writes OTPs to the debug log instead of sending them. Used in
// development and as the fallback when no SMS provider is configured.
type LogOTPSender struct{}

// SendOTP implements OTPSender
func (LogOTPSender) SendOTP(phone, code string) error {
	LogDebug("OTP for %s: %s", phone, code)
	return nil
}

// DefaultOTPSender is the sender used by the auth controllers. main replaces
// it when an SMS provider is configured.
var DefaultOTPSender OTPSender = LogOTPSender{}
