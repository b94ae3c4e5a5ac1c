// Package memory is an in-process implementation of the repositories for
// development and tests. A single mutex guards every table so the quote cap
// check and insert happen as one step.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/quote"
	"quote-negotiation-backend/internal/repository"
)

type Memory struct {
	mu sync.RWMutex

	rentals       map[int32]domain.Rental
	quotes        map[int32]domain.Quote
	notifications []domain.Notification
	outbox        []domain.OutboxMessage

	nextRentalID       int32
	nextQuoteID        int32
	nextNotificationID int32
	nextOutboxID       int64
}

func New() *Memory {
	return &Memory{
		rentals: make(map[int32]domain.Rental),
		quotes:  make(map[int32]domain.Quote),
	}
}

// Store groups the per-table views the same way postgres.Store does.
type Store struct {
	repository.RentalRepository
	repository.QuoteRepository
	repository.NotificationRepository
	repository.OutboxRepository
}

func NewStore() *Store {
	m := New()
	return &Store{
		RentalRepository:       &rentalRepository{m},
		QuoteRepository:        &quoteRepository{m},
		NotificationRepository: &notificationRepository{m},
		OutboxRepository:       &outboxRepository{m},
	}
}

type rentalRepository struct{ m *Memory }

func (r *rentalRepository) Create(_ context.Context, rt *domain.Rental) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if rt.ID == 0 {
		r.m.nextRentalID++
		rt.ID = r.m.nextRentalID
	} else if rt.ID > r.m.nextRentalID {
		r.m.nextRentalID = rt.ID
	}
	if rt.CreatedOn.IsZero() {
		rt.CreatedOn = time.Now().UTC()
	}
	r.m.rentals[rt.ID] = *rt
	return nil
}

func (r *rentalRepository) GetByID(_ context.Context, id int32) (*domain.Rental, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	rt, ok := r.m.rentals[id]
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	return &rt, nil
}

type quoteRepository struct{ m *Memory }

func (r *quoteRepository) CreateWithinCap(_ context.Context, q *domain.Quote) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.rentals[q.RentalID]; !ok {
		return domain.ErrRentalNotFound
	}
	existing := r.m.byRentalLocked(q.RentalID)
	if err := quote.CheckCreate(q.RentalID, existing); err != nil {
		return err
	}

	r.m.nextQuoteID++
	q.ID = r.m.nextQuoteID
	q.QuoteNumber = quote.NextQuoteNumber(existing)
	r.m.quotes[q.ID] = *q
	return nil
}

func (r *quoteRepository) GetByID(_ context.Context, id int32) (*domain.Quote, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	q, ok := r.m.quotes[id]
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	return &q, nil
}

func (r *quoteRepository) ListByRental(_ context.Context, rentalID int32) ([]domain.Quote, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return r.m.byRentalLocked(rentalID), nil
}

func (r *quoteRepository) CompareAndSwap(_ context.Context, q *domain.Quote, expectedStatus domain.QuoteStatus, expectedVersion int32) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	current, ok := r.m.quotes[q.ID]
	if !ok {
		return domain.ErrQuoteNotFound
	}
	if current.Status != expectedStatus || current.Version != expectedVersion {
		return &domain.StaleStateError{
			QuoteID:         q.ID,
			ExpectedStatus:  expectedStatus,
			ActualStatus:    current.Status,
			ExpectedVersion: expectedVersion,
			ActualVersion:   current.Version,
		}
	}

	if quote.EntersCustomerReview(current.Status, q.Status) {
		if err := quote.CheckActivate(&current, r.m.byRentalLocked(current.RentalID)); err != nil {
			return err
		}
	}

	// Only the mutable columns are written, mirroring the SQL update.
	current.Status = q.Status
	current.DeliveryFee = q.DeliveryFee
	current.CustomizationFee = q.CustomizationFee
	current.StaffDescription = q.StaffDescription
	current.ManagerFeedback = q.ManagerFeedback
	current.CustomerReason = q.CustomerReason
	current.Version = q.Version
	current.UpdatedAt = q.UpdatedAt
	r.m.quotes[q.ID] = current
	return nil
}

func (r *quoteRepository) ListRentalsPendingExpiry(_ context.Context, limit int32) ([]int32, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	grouped := make(map[int32][]domain.Quote)
	for _, q := range r.m.quotes {
		grouped[q.RentalID] = append(grouped[q.RentalID], q)
	}

	var ids []int32
	for rentalID, quotes := range grouped {
		if quote.ShouldExpire(quotes) && len(quote.Expirable(quotes)) > 0 {
			ids = append(ids, rentalID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && int(limit) < len(ids) {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *Memory) byRentalLocked(rentalID int32) []domain.Quote {
	var out []domain.Quote
	for _, q := range m.quotes {
		if q.RentalID == rentalID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuoteNumber < out[j].QuoteNumber })
	return out
}

type notificationRepository struct{ m *Memory }

func (r *notificationRepository) Create(_ context.Context, n *domain.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.nextNotificationID++
	n.ID = r.m.nextNotificationID
	if n.CreatedOn.IsZero() {
		n.CreatedOn = time.Now().UTC()
	}
	r.m.notifications = append(r.m.notifications, *n)
	return nil
}

func (r *notificationRepository) List(_ context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var mine []domain.Notification
	// newest first
	for i := len(r.m.notifications) - 1; i >= 0; i-- {
		if r.m.notifications[i].UserID == userID {
			mine = append(mine, r.m.notifications[i])
		}
	}
	total := int32(len(mine))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return mine[offset:end], total, nil
}

func (r *notificationRepository) MarkAsRead(_ context.Context, id, userID int32) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for i := range r.m.notifications {
		if r.m.notifications[i].ID == id && r.m.notifications[i].UserID == userID {
			r.m.notifications[i].IsRead = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

type outboxRepository struct{ m *Memory }

func (r *outboxRepository) Enqueue(_ context.Context, msg *domain.OutboxMessage) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.nextOutboxID++
	msg.ID = r.m.nextOutboxID
	msg.CreatedAt = time.Now().UTC()
	r.m.outbox = append(r.m.outbox, *msg)
	return nil
}

func (r *outboxRepository) ListPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []domain.OutboxMessage
	for _, msg := range r.m.outbox {
		if msg.SentAt != nil || msg.Retries >= domain.MaxOutboxRetries {
			continue
		}
		out = append(out, msg)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *outboxRepository) Ack(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for i := range r.m.outbox {
		if r.m.outbox[i].ID == id {
			now := time.Now().UTC()
			r.m.outbox[i].SentAt = &now
			return nil
		}
	}
	return nil
}

func (r *outboxRepository) IncrementRetries(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for i := range r.m.outbox {
		if r.m.outbox[i].ID == id {
			r.m.outbox[i].Retries++
			return nil
		}
	}
	return nil
}
