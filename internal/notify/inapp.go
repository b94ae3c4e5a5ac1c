package notify

import (
	"context"
	"errors"
	"strconv"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/repository"
)

// InAppPublisher stores a notification for each participant who has to act next.
type InAppPublisher struct {
	repo repository.NotificationRepository
}

func NewInAppPublisher(repo repository.NotificationRepository) *InAppPublisher {
	return &InAppPublisher{repo: repo}
}

func (p *InAppPublisher) Publish(ctx context.Context, e domain.QuoteEvent, r *domain.Rental) error {
	msg := messageFor(e, r)
	var errs []error
	for _, userID := range msg.recipients {
		if userID == 0 {
			continue
		}
		note := &domain.Notification{
			UserID:   userID,
			RentalID: e.RentalID,
			Title:    msg.title,
			Message:  msg.body,
			Attributes: map[string]string{
				"quote_id":     strconv.Itoa(int(e.QuoteID)),
				"quote_number": strconv.Itoa(int(e.QuoteNumber)),
				"status":       string(e.Status),
				"event_id":     e.EventID,
			},
		}
		if err := p.repo.Create(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
