package grpc

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/quote"
)

func invalid(field, msg string) error {
	return &domain.ValidationError{Field: field, Message: msg}
}

// int32Field reads an optional whole number. A missing field reads as zero.
func int32Field(req *structpb.Struct, name string) (int32, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, invalid(name, "must be a number")
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, invalid(name, "must be a 32-bit integer")
	}
	return int32(f), nil
}

func idField(req *structpb.Struct, name string) (int32, error) {
	id, err := int32Field(req, name)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, invalid(name, "is required")
	}
	return id, nil
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// decimalValue reads money sent as a decimal string ("500000.00"). Numbers
// are refused since structpb carries them as float64.
func decimalValue(name string, v *structpb.Value) (decimal.Decimal, error) {
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return decimal.Zero, invalid(name, "must be a decimal string")
	}
	d, err := decimal.NewFromString(str.StringValue)
	if err != nil {
		return decimal.Zero, invalid(name, "is not a decimal")
	}
	return d, nil
}

func optionalDecimal(req *structpb.Struct, name string) (*decimal.Decimal, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return nil, nil
	}
	d, err := decimalValue(name, v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func revisionFromStruct(req *structpb.Struct) (quote.Revision, error) {
	rev := quote.Revision{StaffDescription: stringField(req, "staff_description")}
	fees := req.GetFields()["fees"].GetStructValue()
	if fees == nil {
		return rev, nil
	}
	rev.Fees = make(map[quote.Field]decimal.Decimal, len(fees.GetFields()))
	for name, v := range fees.GetFields() {
		d, err := decimalValue(name, v)
		if err != nil {
			return rev, err
		}
		rev.Fees[quote.Field(name)] = d
	}
	return rev, nil
}

func timeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func mapDomainQuoteToStruct(q *domain.Quote) (*structpb.Struct, error) {
	totals := q.Totals()
	return structpb.NewStruct(map[string]any{
		"id":                   q.ID,
		"rental_id":            q.RentalID,
		"quote_number":         q.QuoteNumber,
		"status":               string(q.Status),
		"rental_fee":           q.RentalFee.String(),
		"staff_fee":            q.StaffFee.String(),
		"damage_deposit":       q.DamageDeposit.String(),
		"delivery_fee":         q.DeliveryFee.String(),
		"customization_fee":    q.CustomizationFee.String(),
		"total_deposit":        totals.TotalDeposit.String(),
		"total_payment":        totals.TotalPayment.String(),
		"grand_total":          totals.GrandTotal.String(),
		"package_tier":         q.PackageTier,
		"billable_hours":       q.BillableHours.String(),
		"delivery_distance_km": q.DeliveryDistanceKm.String(),
		"staff_description":    q.StaffDescription,
		"manager_feedback":     q.ManagerFeedback,
		"customer_reason":      q.CustomerReason,
		"version":              q.Version,
		"created_at":           timeString(q.CreatedAt),
		"updated_at":           timeString(q.UpdatedAt),
	})
}

func mapDomainQuoteListToStruct(list *domain.QuoteList) (*structpb.Struct, error) {
	quotes := make([]any, len(list.Quotes))
	for i, s := range list.Quotes {
		quotes[i] = map[string]any{
			"id":            s.ID,
			"quote_number":  s.QuoteNumber,
			"status":        string(s.Status),
			"total_deposit": s.TotalDeposit.String(),
			"total_payment": s.TotalPayment.String(),
			"grand_total":   s.GrandTotal.String(),
			"created_at":    timeString(s.CreatedAt),
			"updated_at":    timeString(s.UpdatedAt),
		}
	}
	return structpb.NewStruct(map[string]any{
		"rental_id":       list.RentalID,
		"quotes":          quotes,
		"total_quotes":    list.TotalQuotes,
		"can_create_more": list.CanCreateMore,
	})
}

func mapDomainNotificationToMap(n *domain.Notification) map[string]any {
	attrs := make(map[string]any, len(n.Attributes))
	for k, v := range n.Attributes {
		attrs[k] = v
	}
	return map[string]any{
		"id":         n.ID,
		"rental_id":  n.RentalID,
		"title":      n.Title,
		"message":    n.Message,
		"is_read":    n.IsRead,
		"attributes": attrs,
		"created_on": timeString(n.CreatedOn),
	}
}
