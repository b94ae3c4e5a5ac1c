package service

import (
	"context"

	"github.com/shopspring/decimal"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/quote"
)

// ReviewDecision is the outcome of a manager or customer review.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "APPROVE"
	DecisionReject  ReviewDecision = "REJECT"
)

type QuoteService interface {
	// CreateQuote prices a new quote for the rental. A nil customizationFee means zero.
	CreateQuote(ctx context.Context, rentalID int32, customizationFee *decimal.Decimal, staffDescription string) (*domain.Quote, error)
	GetQuote(ctx context.Context, quoteID int32) (*domain.Quote, error)
	ListQuotesForRental(ctx context.Context, rentalID int32) (*domain.QuoteList, error)
	ManagerAction(ctx context.Context, quoteID int32, decision ReviewDecision, feedback string, expectedVersion int32) (*domain.Quote, error)
	ReviseQuote(ctx context.Context, quoteID int32, rev quote.Revision, expectedVersion int32) (*domain.Quote, error)
	CustomerAction(ctx context.Context, quoteID int32, decision ReviewDecision, reason string, expectedVersion int32) (*domain.Quote, error)
	// ExpireNegotiation retires the remaining quotes of an exhausted
	// negotiation and returns the quotes it expired.
	ExpireNegotiation(ctx context.Context, rentalID int32) ([]domain.Quote, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}
