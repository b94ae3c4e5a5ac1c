package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-negotiation-backend/internal/config"
	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/messaging"
	"quote-negotiation-backend/internal/repository/memory"
	"quote-negotiation-backend/internal/service"
)

type sentMessage struct {
	topic, key string
	payload    []byte
}

type fakeProducer struct {
	sent []sentMessage
	fail map[string]bool
}

func (p *fakeProducer) Publish(_ context.Context, topic, key string, payload []byte) error {
	if p.fail[key] {
		return errors.New("leader not available")
	}
	p.sent = append(p.sent, sentMessage{topic: topic, key: key, payload: payload})
	return nil
}

func testConfig() *config.Config {
	return &config.Config{Messaging: config.MessagingConfig{QuoteTopic: "quote.events", OutboxBatchSize: 10}}
}

func TestDrainOutbox(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, key := range []string{"42", "43", "44"} {
		require.NoError(t, store.OutboxRepository.Enqueue(ctx, &domain.OutboxMessage{
			Topic: "quote.events", Key: key, Payload: []byte(`{}`), MsgType: "quote.PENDING_MANAGER",
		}))
	}

	producer := &fakeProducer{fail: map[string]bool{"43": true}}
	jr := NewJobRunner(store.QuoteRepository, store.OutboxRepository, nil, producer, testConfig())

	sent, failed, err := jr.drainOutbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
	require.Len(t, producer.sent, 2)
	assert.Equal(t, "42", producer.sent[0].key)
	assert.Equal(t, "44", producer.sent[1].key)

	pending, err := store.OutboxRepository.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "43", pending[0].Key)
	assert.Equal(t, int32(1), pending[0].Retries)

	t.Run("Parked message is not resent", func(t *testing.T) {
		for i := 0; i < domain.MaxOutboxRetries; i++ {
			require.NoError(t, store.OutboxRepository.IncrementRetries(ctx, pending[0].ID))
		}
		producer.fail = nil
		sent, failed, err := jr.drainOutbox(ctx)
		require.NoError(t, err)
		assert.Zero(t, sent)
		assert.Zero(t, failed)
		assert.Len(t, producer.sent, 2)
	})
}

func TestDrainOutbox_ParkedMessageDoesNotBlockQueue(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	parked := &domain.OutboxMessage{Topic: "quote.events", Key: "42", Payload: []byte(`{}`), MsgType: "quote.PENDING_MANAGER"}
	require.NoError(t, store.OutboxRepository.Enqueue(ctx, parked))
	for i := 0; i < domain.MaxOutboxRetries; i++ {
		require.NoError(t, store.OutboxRepository.IncrementRetries(ctx, parked.ID))
	}
	require.NoError(t, store.OutboxRepository.Enqueue(ctx, &domain.OutboxMessage{
		Topic: "quote.events", Key: "43", Payload: []byte(`{}`), MsgType: "quote.PENDING_CUSTOMER",
	}))

	cfg := testConfig()
	cfg.Messaging.OutboxBatchSize = 1
	producer := &fakeProducer{}
	jr := NewJobRunner(store.QuoteRepository, store.OutboxRepository, nil, producer, cfg)

	sent, failed, err := jr.drainOutbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Zero(t, failed)
	require.Len(t, producer.sent, 1)
	assert.Equal(t, "43", producer.sent[0].key)

	pending, err := store.OutboxRepository.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDrainOutbox_LastRetryParksMessage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	msg := &domain.OutboxMessage{Topic: "quote.events", Key: "42", Payload: []byte(`{}`)}
	require.NoError(t, store.OutboxRepository.Enqueue(ctx, msg))
	for i := 0; i < domain.MaxOutboxRetries-1; i++ {
		require.NoError(t, store.OutboxRepository.IncrementRetries(ctx, msg.ID))
	}

	producer := &fakeProducer{fail: map[string]bool{"42": true}}
	jr := NewJobRunner(store.QuoteRepository, store.OutboxRepository, nil, producer, testConfig())

	_, failed, err := jr.drainOutbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	pending, err := store.OutboxRepository.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDrainOutbox_NotConnected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.OutboxRepository.Enqueue(ctx, &domain.OutboxMessage{Topic: "quote.events", Key: "42", Payload: []byte(`{}`)}))

	client := messaging.NewClient(config.MessagingConfig{})
	jr := NewJobRunner(store.QuoteRepository, store.OutboxRepository, nil, client, testConfig())

	_, _, err := jr.drainOutbox(ctx)
	assert.ErrorIs(t, err, messaging.ErrNotConnected)

	pending, err := store.OutboxRepository.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Zero(t, pending[0].Retries)
}

func TestReconcileExpiredNegotiations(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.RentalRepository.Create(ctx, &domain.Rental{
		ID: 42, PackageTier: "Standard", EventStart: start, EventEnd: start.Add(2 * time.Hour), City: "Hà Nội",
	}))

	// three customer-rejected quotes left behind by a failed cascade
	for i := 0; i < domain.MaxQuotesPerRental; i++ {
		q := &domain.Quote{
			RentalID:         42,
			Status:           domain.QuoteStatusPendingManager,
			RentalFee:        decimal.NewFromInt(11_000_000),
			StaffFee:         decimal.NewFromInt(800_000),
			DamageDeposit:    decimal.NewFromInt(10_000_000),
			StaffDescription: "draft",
			Version:          1,
		}
		require.NoError(t, store.QuoteRepository.CreateWithinCap(ctx, q))
		rejected := *q
		rejected.Status = domain.QuoteStatusRejectedCustomer
		rejected.Version = 2
		require.NoError(t, store.QuoteRepository.CompareAndSwap(ctx, &rejected, domain.QuoteStatusPendingManager, 1))
	}

	svc := service.NewQuoteService(store.RentalRepository, store.QuoteRepository, nil)
	jr := NewJobRunner(store.QuoteRepository, store.OutboxRepository, svc, &fakeProducer{}, testConfig())
	jr.ReconcileExpiredNegotiations()

	quotes, err := store.QuoteRepository.ListByRental(ctx, 42)
	require.NoError(t, err)
	require.Len(t, quotes, domain.MaxQuotesPerRental)
	for _, q := range quotes {
		assert.Equal(t, domain.QuoteStatusExpired, q.Status)
		assert.Equal(t, int32(3), q.Version)
	}

	pending, err := store.QuoteRepository.ListRentalsPendingExpiry(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRunWithRecovery(t *testing.T) {
	jr := NewJobRunner(nil, nil, nil, nil, testConfig())
	assert.NotPanics(t, func() {
		jr.runWithRecovery("boom", func() { panic("nil map") })
	})
}
