package utils

import (
	"fmt"

	"github.com/raushankrgupta/chicforgeeks-api/logger"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer sends transactional mail through SendGrid.
type SendGridMailer struct {
	apiKey string
	from   *mail.Email
	log    *logger.Logger
}

func NewSendGridMailer(apiKey, fromAddress string, log *logger.Logger) *SendGridMailer {
	return &SendGridMailer{
		apiKey: apiKey,
		from:   mail.NewEmail("ChicForGeeks", fromAddress),
		log:    log,
	}
}

// SendEmail sends an email using SendGrid
func (m *SendGridMailer) SendEmail(toName, toEmail, subject, textContent, htmlContent string) error {
	if m.apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(m.from, subject, to, textContent, htmlContent)
	client := sendgrid.NewSendClient(m.apiKey)

	response, err := client.Send(message)
	if err != nil {
		m.log.Error("error sending email", "to", toEmail, "error", err)
		return err
	}

	if response.StatusCode >= 400 {
		m.log.Error("sendgrid api error", "status", response.StatusCode, "body", response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	m.log.Info("email sent", "to", toEmail, "status", response.StatusCode)
	return nil
}

// WelcomeEmail returns the subject, text and html bodies sent after sign-up.
func WelcomeEmail(name string) (string, string, string) {
	subject := "Welcome to ChicForGeeks"
	text := fmt.Sprintf("Hi %s, your account is ready. Start building your first outfit!", name)
	html := fmt.Sprintf("<h1>Hi %s,</h1><p>Your account is ready. Start building your first outfit!</p>", name)
	return subject, text, html
}
