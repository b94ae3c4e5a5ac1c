package jobs

import (
	"context"
	"time"

	"quote-negotiation-backend/internal/logger"
)

const reconcileBatchSize = 100

// ReconcileExpiredNegotiations expires exhausted negotiations whose cascade
// did not complete when the last quote was rejected.
// Runs every 15 minutes by default.
func (jr *JobRunner) ReconcileExpiredNegotiations() {
	jr.runWithRecovery("ReconcileExpiredNegotiations", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		rentalIDs, err := jr.quoteRepo.ListRentalsPendingExpiry(ctx, reconcileBatchSize)
		if err != nil {
			logger.Error("Failed to list rentals pending expiry", "error", err)
			return
		}

		expired := 0
		for _, rentalID := range rentalIDs {
			quotes, err := jr.quotes.ExpireNegotiation(ctx, rentalID)
			if err != nil {
				logger.Error("Failed to expire negotiation", "rentalID", rentalID, "error", err)
				continue
			}
			expired += len(quotes)
		}

		logger.Info("Reconciled expired negotiations", "rentals", len(rentalIDs), "quotesExpired", expired)
	})
}
