package quote

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-negotiation-backend/internal/domain"
)

func sampleQuote(id int32, status domain.QuoteStatus) domain.Quote {
	created := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	return domain.Quote{
		ID:               id,
		RentalID:         42,
		QuoteNumber:      1,
		Status:           status,
		RentalFee:        decimal.NewFromInt(13_750_000),
		StaffFee:         decimal.NewFromInt(1_000_000),
		DamageDeposit:    decimal.NewFromInt(10_000_000),
		DeliveryFee:      decimal.Zero,
		CustomizationFee: decimal.Zero,
		StaffDescription: "Standard package, afternoon slot",
		Version:          1,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
}

func TestApply_ManagerApprove(t *testing.T) {
	q := sampleQuote(7, domain.QuoteStatusPendingManager)
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	next, err := Apply(q, Action{Kind: ActionManagerApprove, Actor: domain.RoleManager, At: at})
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusPendingCustomer, next.Status)
	assert.Equal(t, int32(2), next.Version)
	assert.Equal(t, at, next.UpdatedAt)
	assert.True(t, q.GrandTotal().Equal(next.GrandTotal()))

	t.Run("Second manager action is invalid", func(t *testing.T) {
		_, err := Apply(next, Action{Kind: ActionManagerReject, Actor: domain.RoleManager, Feedback: "too high"})
		var invalid *domain.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, domain.QuoteStatusPendingCustomer, invalid.From)
		assert.Equal(t, int32(7), invalid.QuoteID)
	})
}

func TestApply_ManagerReject(t *testing.T) {
	q := sampleQuote(1, domain.QuoteStatusPendingManager)

	t.Run("Requires feedback", func(t *testing.T) {
		_, err := Apply(q, Action{Kind: ActionManagerReject, Actor: domain.RoleManager, Feedback: "   "})
		var missing *domain.MissingFeedbackError
		assert.ErrorAs(t, err, &missing)
	})

	t.Run("Stores feedback", func(t *testing.T) {
		next, err := Apply(q, Action{Kind: ActionManagerReject, Actor: domain.RoleManager, Feedback: " delivery fee is wrong "})
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusRejectedManager, next.Status)
		assert.Equal(t, "delivery fee is wrong", next.ManagerFeedback)
		assert.Empty(t, q.ManagerFeedback, "input quote must not be modified")
	})
}

func TestApply_RoleGate(t *testing.T) {
	q := sampleQuote(1, domain.QuoteStatusPendingManager)

	_, err := Apply(q, Action{Kind: ActionManagerApprove, Actor: domain.RoleStaff})
	var forbidden *domain.ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, domain.RoleStaff, forbidden.Role)

	_, err = Apply(q, Action{Kind: "TELEPORT", Actor: domain.RoleStaff})
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestApply_StaffRevise(t *testing.T) {
	q := sampleQuote(9, domain.QuoteStatusRejectedManager)
	q.ManagerFeedback = "add the balloon arch"

	t.Run("Customization change returns to manager", func(t *testing.T) {
		next, err := Apply(q, Action{
			Kind:  ActionStaffRevise,
			Actor: domain.RoleStaff,
			Revision: Revision{
				Fees:             map[Field]decimal.Decimal{FieldCustomizationFee: decimal.NewFromInt(500_000)},
				StaffDescription: q.StaffDescription,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusPendingManager, next.Status)
		assert.Empty(t, next.ManagerFeedback)
		assert.True(t, next.CustomizationFee.Equal(decimal.NewFromInt(500_000)))
		assert.True(t, next.RentalFee.Equal(q.RentalFee))
		assert.True(t, next.StaffFee.Equal(q.StaffFee))
		assert.True(t, next.DamageDeposit.Equal(q.DamageDeposit))
		assert.True(t, next.TotalDeposit().Equal(q.TotalDeposit()))
	})

	t.Run("Identical values", func(t *testing.T) {
		_, err := Apply(q, Action{
			Kind:  ActionStaffRevise,
			Actor: domain.RoleStaff,
			Revision: Revision{
				Fees:             map[Field]decimal.Decimal{FieldDeliveryFee: decimal.Zero},
				StaffDescription: q.StaffDescription,
			},
		})
		var noChange *domain.NoChangeError
		assert.ErrorAs(t, err, &noChange)
	})

	t.Run("Not manager-rejected", func(t *testing.T) {
		for _, status := range []domain.QuoteStatus{
			domain.QuoteStatusPendingManager,
			domain.QuoteStatusPendingCustomer,
			domain.QuoteStatusApproved,
			domain.QuoteStatusRejectedCustomer,
			domain.QuoteStatusExpired,
		} {
			_, err := Apply(sampleQuote(9, status), Action{
				Kind:     ActionStaffRevise,
				Actor:    domain.RoleStaff,
				Revision: Revision{StaffDescription: "new text"},
			})
			var invalid *domain.InvalidTransitionError
			assert.ErrorAs(t, err, &invalid, "status %s", status)
		}
	})
}

func TestApply_Customer(t *testing.T) {
	q := sampleQuote(3, domain.QuoteStatusPendingCustomer)

	t.Run("Approve", func(t *testing.T) {
		next, err := Apply(q, Action{Kind: ActionCustomerApprove, Actor: domain.RoleCustomer})
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusApproved, next.Status)
		assert.True(t, next.Status.IsTerminal())
	})

	t.Run("Reject with optional reason", func(t *testing.T) {
		next, err := Apply(q, Action{Kind: ActionCustomerReject, Actor: domain.RoleCustomer})
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusRejectedCustomer, next.Status)
		assert.Empty(t, next.CustomerReason)

		next, err = Apply(q, Action{Kind: ActionCustomerReject, Actor: domain.RoleCustomer, Reason: "over budget"})
		require.NoError(t, err)
		assert.Equal(t, "over budget", next.CustomerReason)
	})

	t.Run("Acting on an expired quote is stale", func(t *testing.T) {
		_, err := Apply(sampleQuote(3, domain.QuoteStatusExpired), Action{Kind: ActionCustomerApprove, Actor: domain.RoleCustomer})
		var stale *domain.StaleStateError
		require.ErrorAs(t, err, &stale)
		assert.Equal(t, domain.QuoteStatusPendingCustomer, stale.ExpectedStatus)
		assert.Equal(t, domain.QuoteStatusExpired, stale.ActualStatus)
	})

	t.Run("Acting before manager approval is invalid", func(t *testing.T) {
		_, err := Apply(sampleQuote(3, domain.QuoteStatusPendingManager), Action{Kind: ActionCustomerApprove, Actor: domain.RoleCustomer})
		var invalid *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("Version mismatch is stale", func(t *testing.T) {
		_, err := Apply(q, Action{Kind: ActionCustomerApprove, Actor: domain.RoleCustomer, ExpectedVersion: 5})
		var stale *domain.StaleStateError
		require.ErrorAs(t, err, &stale)
		assert.Equal(t, int32(5), stale.ExpectedVersion)
		assert.Equal(t, int32(1), stale.ActualVersion)
	})
}

func TestApply_Expire(t *testing.T) {
	next, err := Apply(sampleQuote(4, domain.QuoteStatusRejectedCustomer), Action{Kind: ActionExpire, Actor: domain.RoleSystem})
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusExpired, next.Status)

	_, err = Apply(next, Action{Kind: ActionExpire, Actor: domain.RoleSystem})
	var invalid *domain.InvalidTransitionError
	assert.True(t, errors.As(err, &invalid), "expired is terminal")
}

func TestTransitionsCoverEveryStatus(t *testing.T) {
	for _, s := range []domain.QuoteStatus{
		domain.QuoteStatusPendingManager,
		domain.QuoteStatusRejectedManager,
		domain.QuoteStatusPendingCustomer,
		domain.QuoteStatusApproved,
		domain.QuoteStatusRejectedCustomer,
		domain.QuoteStatusExpired,
	} {
		_, ok := transitions[s]
		assert.True(t, ok, "missing row for %s", s)
	}
	assert.Empty(t, transitions[domain.QuoteStatusApproved])
	assert.Empty(t, transitions[domain.QuoteStatusExpired])
}
