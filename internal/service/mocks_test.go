package service_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"quote-negotiation-backend/internal/domain"
)

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *MockRentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) CreateWithinCap(ctx context.Context, q *domain.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepository) GetByID(ctx context.Context, id int32) (*domain.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockQuoteRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.Quote, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quote), args.Error(1)
}

func (m *MockQuoteRepository) CompareAndSwap(ctx context.Context, q *domain.Quote, expectedStatus domain.QuoteStatus, expectedVersion int32) error {
	args := m.Called(ctx, q, expectedStatus, expectedVersion)
	return args.Error(0)
}

func (m *MockQuoteRepository) ListRentalsPendingExpiry(ctx context.Context, limit int32) ([]int32, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNotificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// recordingPublisher keeps every event it is handed and optionally fails.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.QuoteEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.QuoteEvent, _ *domain.Rental) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) statuses() []domain.QuoteStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.QuoteStatus, len(p.events))
	for i, e := range p.events {
		out[i] = e.Status
	}
	return out
}
