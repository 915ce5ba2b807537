package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendOTPEmail delivers a verification OTP to a member's email address
func SendOTPEmail(to, otp string) error {
	config := emailConfigFromEnv()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your UnionSathi verification code")

	body := fmt.Sprintf(`
		<h2>UnionSathi</h2>
		<p>Use the following code to verify your membership account:</p>
		<h1 style="color: #1a73e8; font-size: 32px; letter-spacing: 5px;">%s</h1>
		<p>This code will expire in 10 minutes.</p>
		<p>If you didn't request this code, please ignore this email.</p>
	`, otp)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendReceiptEmail notifies a member that a membership payment settled
func SendReceiptEmail(to, plan, receiptID string, amount int64, renewalDate string) error {
	config := emailConfigFromEnv()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "UnionSathi membership payment received")

	body := fmt.Sprintf(`
		<h2>Payment received</h2>
		<p>Your %s membership payment of Rs. %d has been recorded.</p>
		<p>Receipt: %s</p>
		<p>Your membership is active until %s.</p>
	`, plan, amount, receiptID, renewalDate)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
