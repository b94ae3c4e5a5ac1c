package grpc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/quote"
)

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestInt32Field(t *testing.T) {
	req := mustStruct(t, map[string]any{"quote_id": 7, "half": 1.5, "name": "x"})

	id, err := idField(req, "quote_id")
	require.NoError(t, err)
	assert.Equal(t, int32(7), id)

	v, err := int32Field(req, "missing")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = idField(req, "missing")
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "missing", validation.Field)

	_, err = int32Field(req, "half")
	assert.ErrorAs(t, err, &validation)

	_, err = int32Field(req, "name")
	assert.ErrorAs(t, err, &validation)
}

func TestRevisionFromStruct(t *testing.T) {
	req := mustStruct(t, map[string]any{
		"staff_description": "Added balloon arch",
		"fees": map[string]any{
			"customizationFee": "500000.00",
			"deliveryFee":      "200000",
		},
	})

	rev, err := revisionFromStruct(req)
	require.NoError(t, err)
	assert.Equal(t, "Added balloon arch", rev.StaffDescription)
	assert.True(t, rev.Fees[quote.FieldCustomizationFee].Equal(decimal.NewFromInt(500_000)))
	assert.True(t, rev.Fees[quote.FieldDeliveryFee].Equal(decimal.NewFromInt(200_000)))

	t.Run("Bad decimal", func(t *testing.T) {
		_, err := revisionFromStruct(mustStruct(t, map[string]any{"fees": map[string]any{"deliveryFee": "lots"}}))
		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "deliveryFee", validation.Field)
	})

	t.Run("Number money is refused", func(t *testing.T) {
		_, err := revisionFromStruct(mustStruct(t, map[string]any{"fees": map[string]any{"customizationFee": 0.1 + 0.2}}))
		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "customizationFee", validation.Field)
	})
}

func TestOptionalDecimal(t *testing.T) {
	req := mustStruct(t, map[string]any{"customization_fee": "150000.50", "bad_fee": 150000})

	d, err := optionalDecimal(req, "customization_fee")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("150000.5")))

	missing, err := optionalDecimal(req, "delivery_fee")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = optionalDecimal(req, "bad_fee")
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "bad_fee", validation.Field)
}

func TestMapDomainQuoteToStruct(t *testing.T) {
	q := &domain.Quote{
		ID:            3,
		RentalID:      42,
		QuoteNumber:   1,
		Status:        domain.QuoteStatusPendingCustomer,
		RentalFee:     decimal.NewFromInt(13_750_000),
		StaffFee:      decimal.NewFromInt(675_000),
		DamageDeposit: decimal.NewFromInt(10_000_000),
		DeliveryFee:   decimal.NewFromInt(200_000),
		Version:       2,
	}

	s, err := mapDomainQuoteToStruct(q)
	require.NoError(t, err)
	fields := s.GetFields()
	assert.Equal(t, "PENDING_CUSTOMER", fields["status"].GetStringValue())
	assert.Equal(t, "14327500", fields["total_deposit"].GetStringValue())
	assert.Equal(t, "10297500", fields["total_payment"].GetStringValue())
	assert.Equal(t, "24625000", fields["grand_total"].GetStringValue())
	assert.Equal(t, float64(2), fields["version"].GetNumberValue())
}
