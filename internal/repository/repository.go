package repository

import (
	"context"

	"quote-negotiation-backend/internal/domain"
)

// RentalRepository reads rentals owned by the booking system. Create exists
// for seeding and the in-memory store; the quote engine never writes rentals.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
}

type QuoteRepository interface {
	// CreateWithinCap checks the quote cap and the active-quote rule and
	// inserts q as one atomic step per rental. On success q.ID and
	// q.QuoteNumber are set.
	CreateWithinCap(ctx context.Context, q *domain.Quote) error
	GetByID(ctx context.Context, id int32) (*domain.Quote, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Quote, error)
	// CompareAndSwap stores q only if the row still has expectedStatus and
	// expectedVersion, otherwise it returns a *domain.StaleStateError. A
	// move into customer review is refused with a
	// *domain.DuplicateActiveQuoteError while a sibling quote is already
	// customer-facing; that check and the write are atomic per rental.
	CompareAndSwap(ctx context.Context, q *domain.Quote, expectedStatus domain.QuoteStatus, expectedVersion int32) error
	// ListRentalsPendingExpiry returns rentals at the cap that have no
	// revivable or approved quote but still hold a REJECTED_CUSTOMER one.
	ListRentalsPendingExpiry(ctx context.Context, limit int32) ([]int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg *domain.OutboxMessage) error
	// ListPending returns unsent messages below domain.MaxOutboxRetries, oldest first.
	ListPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error)
	Ack(ctx context.Context, id int64) error
	IncrementRetries(ctx context.Context, id int64) error
}
