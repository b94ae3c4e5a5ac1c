package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-negotiation-backend/internal/domain"
)

func quotesWith(statuses ...domain.QuoteStatus) []domain.Quote {
	out := make([]domain.Quote, len(statuses))
	for i, s := range statuses {
		out[i] = sampleQuote(int32(i+1), s)
		out[i].QuoteNumber = int32(i + 1)
	}
	return out
}

func TestCheckCreate(t *testing.T) {
	t.Run("Empty rental", func(t *testing.T) {
		assert.NoError(t, CheckCreate(42, nil))
	})

	t.Run("After customer rejection", func(t *testing.T) {
		assert.NoError(t, CheckCreate(42, quotesWith(domain.QuoteStatusRejectedCustomer)))
	})

	t.Run("Cap reached", func(t *testing.T) {
		err := CheckCreate(42, quotesWith(
			domain.QuoteStatusRejectedCustomer,
			domain.QuoteStatusRejectedCustomer,
			domain.QuoteStatusRejectedCustomer,
		))
		var capErr *domain.CapExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, int32(3), capErr.Count)
	})

	t.Run("Pending customer blocks creation", func(t *testing.T) {
		err := CheckCreate(42, quotesWith(domain.QuoteStatusRejectedCustomer, domain.QuoteStatusPendingCustomer))
		var dup *domain.DuplicateActiveQuoteError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, int32(2), dup.ActiveQuoteID)
	})

	t.Run("Approved blocks creation", func(t *testing.T) {
		err := CheckCreate(42, quotesWith(domain.QuoteStatusApproved))
		var dup *domain.DuplicateActiveQuoteError
		assert.ErrorAs(t, err, &dup)
	})

	t.Run("Manager review does not block creation", func(t *testing.T) {
		assert.NoError(t, CheckCreate(42, quotesWith(domain.QuoteStatusRejectedManager)))
	})
}

func TestNextQuoteNumber(t *testing.T) {
	assert.Equal(t, int32(1), NextQuoteNumber(nil))
	assert.Equal(t, int32(3), NextQuoteNumber(quotesWith(domain.QuoteStatusRejectedCustomer, domain.QuoteStatusRejectedCustomer)))
}

func TestShouldExpire(t *testing.T) {
	tests := []struct {
		name     string
		statuses []domain.QuoteStatus
		expected bool
	}{
		{"Below cap", []domain.QuoteStatus{domain.QuoteStatusRejectedCustomer, domain.QuoteStatusRejectedCustomer}, false},
		{"All rejected by customer", []domain.QuoteStatus{domain.QuoteStatusRejectedCustomer, domain.QuoteStatusRejectedCustomer, domain.QuoteStatusRejectedCustomer}, true},
		{"One awaiting revision", []domain.QuoteStatus{domain.QuoteStatusRejectedManager, domain.QuoteStatusRejectedCustomer, domain.QuoteStatusRejectedCustomer}, false},
		{"One approved", []domain.QuoteStatus{domain.QuoteStatusRejectedCustomer, domain.QuoteStatusRejectedCustomer, domain.QuoteStatusApproved}, false},
		{"Already expired", []domain.QuoteStatus{domain.QuoteStatusExpired, domain.QuoteStatusExpired, domain.QuoteStatusExpired}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldExpire(quotesWith(tt.statuses...)))
		})
	}
}

func TestExpirable(t *testing.T) {
	quotes := quotesWith(domain.QuoteStatusExpired, domain.QuoteStatusRejectedCustomer, domain.QuoteStatusRejectedCustomer)
	out := Expirable(quotes)
	require.Len(t, out, 2)
	assert.Equal(t, int32(2), out[0].ID)
	assert.Equal(t, int32(3), out[1].ID)
}

func TestEntersCustomerReview(t *testing.T) {
	assert.True(t, EntersCustomerReview(domain.QuoteStatusPendingManager, domain.QuoteStatusPendingCustomer))
	assert.False(t, EntersCustomerReview(domain.QuoteStatusPendingCustomer, domain.QuoteStatusApproved))
	assert.False(t, EntersCustomerReview(domain.QuoteStatusPendingManager, domain.QuoteStatusRejectedManager))
	assert.False(t, EntersCustomerReview(domain.QuoteStatusPendingCustomer, domain.QuoteStatusRejectedCustomer))
}

func TestCheckActivate(t *testing.T) {
	t.Run("Siblings with the manager", func(t *testing.T) {
		quotes := quotesWith(domain.QuoteStatusPendingManager, domain.QuoteStatusRejectedManager)
		assert.NoError(t, CheckActivate(&quotes[0], quotes))
	})

	t.Run("Sibling awaiting the customer", func(t *testing.T) {
		quotes := quotesWith(domain.QuoteStatusPendingCustomer, domain.QuoteStatusPendingManager)
		err := CheckActivate(&quotes[1], quotes)
		var dup *domain.DuplicateActiveQuoteError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, int32(1), dup.ActiveQuoteID)
		assert.Equal(t, int32(42), dup.RentalID)
	})

	t.Run("The quote itself is ignored", func(t *testing.T) {
		quotes := quotesWith(domain.QuoteStatusPendingCustomer)
		assert.NoError(t, CheckActivate(&quotes[0], quotes))
	})
}
