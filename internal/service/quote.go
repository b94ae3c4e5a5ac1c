package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/logger"
	"quote-negotiation-backend/internal/notify"
	"quote-negotiation-backend/internal/quote"
	"quote-negotiation-backend/internal/repository"
)

type quoteService struct {
	rentalRepo repository.RentalRepository
	quoteRepo  repository.QuoteRepository
	publisher  notify.Publisher
	now        func() time.Time
}

func NewQuoteService(
	rentalRepo repository.RentalRepository,
	quoteRepo repository.QuoteRepository,
	publisher notify.Publisher,
) QuoteService {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &quoteService{
		rentalRepo: rentalRepo,
		quoteRepo:  quoteRepo,
		publisher:  publisher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func exitWith(method string, err error, args ...any) {
	if domain.IsRejection(err) {
		logger.ExitMethodRejected(method, err, args...)
		return
	}
	logger.ExitMethodWithError(method, err, args...)
}

func (s *quoteService) CreateQuote(ctx context.Context, rentalID int32, customizationFee *decimal.Decimal, staffDescription string) (*domain.Quote, error) {
	const method = "quoteService.CreateQuote"
	logger.EnterMethod(method, "rentalID", rentalID)

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		exitWith(method, err, "rentalID", rentalID)
		return nil, err
	}

	fee := decimal.Zero
	if customizationFee != nil {
		fee = *customizationFee
	}
	q, err := quote.Draft(rental, fee, staffDescription, s.now())
	if err != nil {
		exitWith(method, err, "rentalID", rentalID)
		return nil, err
	}

	if err := s.quoteRepo.CreateWithinCap(ctx, &q); err != nil {
		exitWith(method, err, "rentalID", rentalID)
		return nil, err
	}

	logger.Transition(q.ID, q.RentalID, "", string(q.Status), q.Version, string(domain.RoleStaff))
	s.publish(ctx, "", &q, domain.RoleStaff, rental)

	logger.ExitMethod(method, "quoteID", q.ID, "quoteNumber", q.QuoteNumber)
	return &q, nil
}

func (s *quoteService) GetQuote(ctx context.Context, quoteID int32) (*domain.Quote, error) {
	return s.quoteRepo.GetByID(ctx, quoteID)
}

func (s *quoteService) ListQuotesForRental(ctx context.Context, rentalID int32) (*domain.QuoteList, error) {
	if _, err := s.rentalRepo.GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	quotes, err := s.quoteRepo.ListByRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	list := &domain.QuoteList{
		RentalID:      rentalID,
		Quotes:        make([]domain.QuoteSummary, 0, len(quotes)),
		TotalQuotes:   int32(len(quotes)),
		CanCreateMore: quote.CanCreateMore(len(quotes)),
	}
	for i := range quotes {
		list.Quotes = append(list.Quotes, quotes[i].Summary())
	}
	return list, nil
}

func (s *quoteService) ManagerAction(ctx context.Context, quoteID int32, decision ReviewDecision, feedback string, expectedVersion int32) (*domain.Quote, error) {
	a := quote.Action{Actor: domain.RoleManager, Feedback: feedback, ExpectedVersion: expectedVersion}
	switch decision {
	case DecisionApprove:
		a.Kind = quote.ActionManagerApprove
	case DecisionReject:
		a.Kind = quote.ActionManagerReject
	default:
		return nil, &domain.ValidationError{Field: "decision", Message: "must be APPROVE or REJECT"}
	}
	q, _, err := s.transition(ctx, "quoteService.ManagerAction", quoteID, a)
	return q, err
}

func (s *quoteService) ReviseQuote(ctx context.Context, quoteID int32, rev quote.Revision, expectedVersion int32) (*domain.Quote, error) {
	q, _, err := s.transition(ctx, "quoteService.ReviseQuote", quoteID, quote.Action{
		Kind:            quote.ActionStaffRevise,
		Actor:           domain.RoleStaff,
		Revision:        rev,
		ExpectedVersion: expectedVersion,
	})
	return q, err
}

func (s *quoteService) CustomerAction(ctx context.Context, quoteID int32, decision ReviewDecision, reason string, expectedVersion int32) (*domain.Quote, error) {
	a := quote.Action{Actor: domain.RoleCustomer, Reason: reason, ExpectedVersion: expectedVersion}
	switch decision {
	case DecisionApprove:
		a.Kind = quote.ActionCustomerApprove
	case DecisionReject:
		a.Kind = quote.ActionCustomerReject
	default:
		return nil, &domain.ValidationError{Field: "decision", Message: "must be APPROVE or REJECT"}
	}

	q, rental, err := s.transition(ctx, "quoteService.CustomerAction", quoteID, a)
	if err != nil || a.Kind != quote.ActionCustomerReject {
		return q, err
	}

	// A rejection of the last possible quote closes the negotiation. The
	// rejection itself is already committed, so a failed cascade is left to
	// the reconcile job.
	expired, err := s.expireIfExhausted(ctx, rental)
	if err != nil {
		logger.Error("Expiry cascade failed", "rentalID", q.RentalID, "quoteID", q.ID, "error", err)
		return q, nil
	}
	for i := range expired {
		if expired[i].ID == q.ID {
			return &expired[i], nil
		}
	}
	return q, nil
}

func (s *quoteService) ExpireNegotiation(ctx context.Context, rentalID int32) ([]domain.Quote, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	return s.expireIfExhausted(ctx, rental)
}

func (s *quoteService) expireIfExhausted(ctx context.Context, rental *domain.Rental) ([]domain.Quote, error) {
	quotes, err := s.quoteRepo.ListByRental(ctx, rental.ID)
	if err != nil {
		return nil, err
	}
	if !quote.ShouldExpire(quotes) {
		return nil, nil
	}

	var expired []domain.Quote
	for _, q := range quote.Expirable(quotes) {
		next, err := quote.Apply(q, quote.Action{Kind: quote.ActionExpire, Actor: domain.RoleSystem, At: s.now()})
		if err != nil {
			return expired, err
		}
		if err := s.quoteRepo.CompareAndSwap(ctx, &next, q.Status, q.Version); err != nil {
			var stale *domain.StaleStateError
			if errors.As(err, &stale) {
				// another worker got there first
				continue
			}
			return expired, err
		}
		logger.Transition(next.ID, next.RentalID, string(q.Status), string(next.Status), next.Version, string(domain.RoleSystem))
		s.publish(ctx, q.Status, &next, domain.RoleSystem, rental)
		expired = append(expired, next)
	}
	return expired, nil
}

// transition loads the quote, applies the action and stores the result with a
// compare-and-set on the status and version it was read at.
func (s *quoteService) transition(ctx context.Context, method string, quoteID int32, a quote.Action) (*domain.Quote, *domain.Rental, error) {
	logger.EnterMethod(method, "quoteID", quoteID, "action", a.Kind)

	current, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		exitWith(method, err, "quoteID", quoteID)
		return nil, nil, err
	}

	a.At = s.now()
	next, err := quote.Apply(*current, a)
	if err != nil {
		exitWith(method, err, "quoteID", quoteID, "status", current.Status)
		return nil, nil, err
	}

	if err := s.quoteRepo.CompareAndSwap(ctx, &next, current.Status, current.Version); err != nil {
		exitWith(method, err, "quoteID", quoteID)
		return nil, nil, err
	}
	logger.Transition(next.ID, next.RentalID, string(current.Status), string(next.Status), next.Version, string(a.Actor))

	rental, err := s.rentalRepo.GetByID(ctx, next.RentalID)
	if err != nil {
		// The transition is committed; only notification is lost.
		logger.Error("Rental lookup after transition failed", "rentalID", next.RentalID, "error", err)
		rental = &domain.Rental{ID: next.RentalID}
	}
	s.publish(ctx, current.Status, &next, a.Actor, rental)

	logger.ExitMethod(method, "quoteID", next.ID, "status", next.Status, "version", next.Version)
	return &next, rental, nil
}

func (s *quoteService) publish(ctx context.Context, from domain.QuoteStatus, q *domain.Quote, actor domain.Role, rental *domain.Rental) {
	event := domain.QuoteEvent{
		EventID:        uuid.NewString(),
		QuoteID:        q.ID,
		RentalID:       q.RentalID,
		QuoteNumber:    q.QuoteNumber,
		PreviousStatus: from,
		Status:         q.Status,
		GrandTotal:     q.GrandTotal(),
		Actor:          actor,
		OccurredAt:     q.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, event, rental); err != nil {
		logger.Error("Failed to publish quote event", "eventID", event.EventID, "quoteID", q.ID, "status", q.Status, "error", err)
	}
}
