package postgres

import (
	"context"
	"database/sql"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/logger"
	"quote-negotiation-backend/internal/repository"
)

type outboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, m *domain.OutboxMessage) error {
	query := `INSERT INTO outbox (topic, msg_key, payload, msg_type) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "outbox", "topic", m.Topic, "msgType", m.MsgType)
	err := r.db.QueryRowContext(ctx, query, m.Topic, m.Key, m.Payload, m.MsgType).Scan(&m.ID, &m.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "outboxID", m.ID)
	return err
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	query := `SELECT id, topic, msg_key, payload, msg_type, retries, created_at FROM outbox
	          WHERE sent_at IS NULL AND retries < $1 ORDER BY id LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, domain.MaxOutboxRetries, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.OutboxMessage
	for rows.Next() {
		var m domain.OutboxMessage
		if err := rows.Scan(&m.ID, &m.Topic, &m.Key, &m.Payload, &m.MsgType, &m.Retries, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *outboxRepository) Ack(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE outbox SET sent_at = now() WHERE id = $1`, id)
	return err
}

func (r *outboxRepository) IncrementRetries(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE outbox SET retries = retries + 1 WHERE id = $1`, id)
	return err
}
