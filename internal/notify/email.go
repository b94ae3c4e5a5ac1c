package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/logger"
)

type mailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// EmailPublisher mails the customer when a quote reaches them and when the
// negotiation closes. Other transitions are internal and stay in-app.
type EmailPublisher struct {
	client   mailClient
	from     string
	fromName string
}

func NewEmailPublisher(apiKey, from, fromName string) *EmailPublisher {
	return &EmailPublisher{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (p *EmailPublisher) Publish(ctx context.Context, e domain.QuoteEvent, r *domain.Rental) error {
	if e.Status != domain.QuoteStatusPendingCustomer && e.Status != domain.QuoteStatusExpired {
		return nil
	}
	if r.CustomerEmail == "" {
		logger.Debug("Customer has no email, skipping", "rentalID", r.ID, "quoteID", e.QuoteID)
		return nil
	}

	msg := messageFor(e, r)
	greeting := "Hello"
	if r.CustomerName != "" {
		greeting = "Hello " + r.CustomerName
	}
	body := fmt.Sprintf("%s,\n\n%s\n\nBest regards,\n%s", greeting, msg.body, p.fromName)

	from := mail.NewEmail(p.fromName, p.from)
	to := mail.NewEmail(r.CustomerName, r.CustomerEmail)
	email := mail.NewSingleEmail(from, msg.title, to, body, "")

	logger.ExternalServiceCall("sendgrid", "Send", "quoteID", e.QuoteID, "status", e.Status)
	response, err := p.client.Send(email)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "quoteID", e.QuoteID)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
