package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/repository/postgres"
)

func TestNotificationRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewNotificationRepository(db)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		n := &domain.Notification{
			UserID:     3,
			RentalID:   42,
			Title:      "Quote awaiting review",
			Message:    "Quote #1 for rental 42 needs your review",
			Attributes: map[string]string{"quote_id": "7"},
		}
		mock.ExpectQuery("INSERT INTO notifications").
			WithArgs(int32(3), int32(42), n.Title, n.Message, false, []byte(`{"quote_id":"7"}`), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := repo.Create(ctx, n)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), n.ID)
	})

	t.Run("List", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM notifications WHERE user_id = \\$1").
			WithArgs(int32(3)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT (.+) FROM notifications WHERE user_id = \\$1").
			WithArgs(int32(3), int32(10), int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "rental_id", "title", "message", "is_read", "attributes", "created_on"}).
				AddRow(1, 3, 42, "t", "m", false, []byte(`{"quote_id":"7"}`), time.Now()))

		notes, count, err := repo.List(ctx, 3, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int32(1), count)
		require.Len(t, notes, 1)
		assert.Equal(t, "7", notes[0].Attributes["quote_id"])
	})

	t.Run("MarkAsRead not owned", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications SET is_read = TRUE").
			WithArgs(int32(1), int32(4)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkAsRead(ctx, 1, 4)
		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	})
}

func TestOutboxRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOutboxRepository(db)
	ctx := context.Background()

	t.Run("Enqueue", func(t *testing.T) {
		m := &domain.OutboxMessage{Topic: "quote.events", Key: "42", Payload: []byte(`{}`), MsgType: "PENDING_MANAGER"}
		mock.ExpectQuery("INSERT INTO outbox").
			WithArgs("quote.events", "42", []byte(`{}`), "PENDING_MANAGER").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), time.Now()))

		require.NoError(t, repo.Enqueue(ctx, m))
		assert.Equal(t, int64(5), m.ID)
	})

	t.Run("ListPending", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM outbox\\s+WHERE sent_at IS NULL AND retries < \\$1").
			WithArgs(domain.MaxOutboxRetries, 50).
			WillReturnRows(sqlmock.NewRows([]string{"id", "topic", "msg_key", "payload", "msg_type", "retries", "created_at"}).
				AddRow(int64(5), "quote.events", "42", []byte(`{}`), "PENDING_MANAGER", 0, time.Now()))

		msgs, err := repo.ListPending(ctx, 50)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "42", msgs[0].Key)
	})

	t.Run("Ack and retry", func(t *testing.T) {
		mock.ExpectExec("UPDATE outbox SET sent_at").WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE outbox SET retries").WithArgs(int64(6)).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Ack(ctx, 5))
		assert.NoError(t, repo.IncrementRetries(ctx, 6))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
