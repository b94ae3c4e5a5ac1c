package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"quote-negotiation-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.QuoteRepository
	repository.NotificationRepository
	repository.OutboxRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		RentalRepository:       NewRentalRepository(db),
		QuoteRepository:        NewQuoteRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		OutboxRepository:       NewOutboxRepository(db),
	}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}
