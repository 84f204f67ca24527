package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/watchhubtv/watchhub/internal/pkg/env"
)

// SendMail sends an HTML email via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendActivationMail sends the account activation link after registration
func SendActivationMail(to string, name string, activationLink string) error {
	subject := "Activate your WatchHub account"
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Welcome to WatchHub. Click the link below to activate your account:</p>"+
			"<p><a href=\"%s\">%s</a></p>"+
			"<p>If you did not create this account you can ignore this email.</p>",
		name, activationLink, activationLink,
	)
	return SendMail(to, subject, body)
}

// SendCancellationMail confirms a subscription cancellation
func SendCancellationMail(to string, subscriptionID string) error {
	subject := "Your WatchHub subscription was cancelled"
	body := fmt.Sprintf(
		"<p>Your subscription <strong>%s</strong> has been cancelled.</p>"+
			"<p>You keep access until the end of the paid period. You can resubscribe at any time.</p>",
		subscriptionID,
	)
	return SendMail(to, subject, body)
}

// SendPasswordResetMail sends a reset link that expires after one hour
func SendPasswordResetMail(to string, resetLink string) error {
	subject := "Reset your WatchHub password"
	body := fmt.Sprintf(
		"<p>A password reset was requested for your account.</p>"+
			"<p><a href=\"%s\">%s</a></p>"+
			"<p>The link expires in one hour. If you did not request a reset you can ignore this email.</p>",
		resetLink, resetLink,
	)
	return SendMail(to, subject, body)
}
