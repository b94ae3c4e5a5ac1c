package jobs

import (
	"context"
	"errors"
	"time"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/logger"
	"quote-negotiation-backend/internal/messaging"
)

// DrainOutbox relays pending outbox messages to the broker in id order.
// Runs every 10 seconds by default.
func (jr *JobRunner) DrainOutbox() {
	jr.runWithRecovery("DrainOutbox", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		sent, failed, err := jr.drainOutbox(ctx)
		if err != nil {
			logger.Error("Failed to drain outbox", "error", err)
			return
		}
		logger.Info("Outbox drained", "sent", sent, "failed", failed)
	})
}

func (jr *JobRunner) drainOutbox(ctx context.Context) (sent, failed int, err error) {
	pending, err := jr.outboxRepo.ListPending(ctx, jr.config.Messaging.OutboxBatchSize)
	if err != nil {
		return 0, 0, err
	}

	for _, msg := range pending {
		if err := jr.producer.Publish(ctx, msg.Topic, msg.Key, msg.Payload); err != nil {
			if errors.Is(err, messaging.ErrNotConnected) {
				// not the message's fault; leave its retry budget alone
				return sent, failed, err
			}
			failed++
			logger.Error("Failed to relay outbox message", "id", msg.ID, "topic", msg.Topic, "error", err)
			if err := jr.outboxRepo.IncrementRetries(ctx, msg.ID); err != nil {
				logger.Error("Failed to record outbox retry", "id", msg.ID, "error", err)
			} else if msg.Retries+1 >= domain.MaxOutboxRetries {
				logger.Warn("Outbox message parked", "id", msg.ID, "msgType", msg.MsgType, "retries", msg.Retries+1)
			}
			continue
		}

		if err := jr.outboxRepo.Ack(ctx, msg.ID); err != nil {
			// the message will be sent again; consumers dedupe on event_id
			logger.Error("Failed to ack outbox message", "id", msg.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, failed, nil
}
