package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"

	"secure-shop/models"
)

// EmailService sends transactional mail through Postmark. A nil *EmailService
// is safe to call and sends nothing, so mail stays optional in development
// and tests.
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService builds an EmailService from POSTMARK_API_TOKEN and
// EMAIL_SENDER. It returns nil when no token is configured.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		return nil
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a plain email to the recipient.
func (es *EmailService) SendEmail(toEmail, subject, body string) error {
	if es == nil {
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: body,
		TextBody: body,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmation notifies the buyer that their order was placed.
func (es *EmailService) SendOrderConfirmation(toEmail string, order *models.Order) error {
	subject := "Order Confirmation"
	body := fmt.Sprintf(
		"Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br>Total: <strong>$%.2f</strong><br>Status: <strong>%s</strong>",
		order.ID.Hex(),
		order.OrderTotal,
		order.Status,
	)
	return es.SendEmail(toEmail, subject, body)
}
