package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/repository"
)

// OutboxPublisher queues the event for the broker relay. The rental id is
// the message key so every event of one negotiation lands on one partition.
type OutboxPublisher struct {
	repo  repository.OutboxRepository
	topic string
}

func NewOutboxPublisher(repo repository.OutboxRepository, topic string) *OutboxPublisher {
	return &OutboxPublisher{repo: repo, topic: topic}
}

func (p *OutboxPublisher) Publish(ctx context.Context, e domain.QuoteEvent, _ *domain.Rental) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode quote event: %w", err)
	}
	return p.repo.Enqueue(ctx, &domain.OutboxMessage{
		Topic:   p.topic,
		Key:     strconv.Itoa(int(e.RentalID)),
		Payload: payload,
		MsgType: "quote." + string(e.Status),
	})
}
