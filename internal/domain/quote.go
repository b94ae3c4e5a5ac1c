package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"quote-negotiation-backend/internal/pricing"
)

// MaxQuotesPerRental is the cumulative quote cap per rental, all statuses included.
const MaxQuotesPerRental = 3

type QuoteStatus string

const (
	QuoteStatusPendingManager   QuoteStatus = "PENDING_MANAGER"
	QuoteStatusRejectedManager  QuoteStatus = "REJECTED_MANAGER"
	QuoteStatusPendingCustomer  QuoteStatus = "PENDING_CUSTOMER"
	QuoteStatusApproved         QuoteStatus = "APPROVED"
	QuoteStatusRejectedCustomer QuoteStatus = "REJECTED_CUSTOMER"
	QuoteStatusExpired          QuoteStatus = "EXPIRED"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusPendingManager, QuoteStatusRejectedManager, QuoteStatusPendingCustomer,
		QuoteStatusApproved, QuoteStatusRejectedCustomer, QuoteStatusExpired:
		return true
	}
	return false
}

// IsCustomerFacing reports whether the quote blocks creation of another quote.
func (s QuoteStatus) IsCustomerFacing() bool {
	return s == QuoteStatusPendingCustomer || s == QuoteStatusApproved
}

// IsRevivable reports whether the quote can still lead to an approval.
func (s QuoteStatus) IsRevivable() bool {
	switch s {
	case QuoteStatusPendingManager, QuoteStatusPendingCustomer, QuoteStatusRejectedManager:
		return true
	}
	return false
}

func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusApproved || s == QuoteStatusExpired
}

// IsPastCustomerReview reports whether the customer has already seen and
// resolved the quote, or the quote was retired underneath them.
func (s QuoteStatus) IsPastCustomerReview() bool {
	switch s {
	case QuoteStatusApproved, QuoteStatusRejectedCustomer, QuoteStatusExpired:
		return true
	}
	return false
}

// Quote is one priced offer in a rental's negotiation.
//
// RentalFee, StaffFee and DamageDeposit are phase-1 (deposit) amounts fixed at
// creation. DeliveryFee and CustomizationFee are phase-2 (payment) amounts
// that staff may adjust when revising a manager-rejected quote. Totals are
// never stored; they are recomputed from the line items on every read.
type Quote struct {
	ID          int32       `json:"id"`
	RentalID    int32       `json:"rental_id"`
	QuoteNumber int32       `json:"quote_number"`
	Status      QuoteStatus `json:"status"`

	RentalFee        decimal.Decimal `json:"rental_fee"`
	StaffFee         decimal.Decimal `json:"staff_fee"`
	DamageDeposit    decimal.Decimal `json:"damage_deposit"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
	CustomizationFee decimal.Decimal `json:"customization_fee"`

	// Pricing provenance captured at creation time.
	PackageTier        string          `json:"package_tier"`
	BillableHours      decimal.Decimal `json:"billable_hours"`
	DeliveryDistanceKm decimal.Decimal `json:"delivery_distance_km"`

	StaffDescription string `json:"staff_description"`
	ManagerFeedback  string `json:"manager_feedback,omitempty"`
	CustomerReason   string `json:"customer_reason,omitempty"`

	Version   int32     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Quote) Totals() pricing.Totals {
	return pricing.SplitTotals(q.RentalFee, q.StaffFee, q.DamageDeposit, q.DeliveryFee, q.CustomizationFee)
}

func (q *Quote) TotalDeposit() decimal.Decimal { return q.Totals().TotalDeposit }
func (q *Quote) TotalPayment() decimal.Decimal { return q.Totals().TotalPayment }
func (q *Quote) GrandTotal() decimal.Decimal   { return q.Totals().GrandTotal }

func (q *Quote) Summary() QuoteSummary {
	totals := q.Totals()
	return QuoteSummary{
		ID:           q.ID,
		QuoteNumber:  q.QuoteNumber,
		Status:       q.Status,
		TotalDeposit: totals.TotalDeposit,
		TotalPayment: totals.TotalPayment,
		GrandTotal:   totals.GrandTotal,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

type QuoteSummary struct {
	ID           int32           `json:"id"`
	QuoteNumber  int32           `json:"quote_number"`
	Status       QuoteStatus     `json:"status"`
	TotalDeposit decimal.Decimal `json:"total_deposit"`
	TotalPayment decimal.Decimal `json:"total_payment"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// QuoteList is the read model of a rental's negotiation.
type QuoteList struct {
	RentalID      int32          `json:"rental_id"`
	Quotes        []QuoteSummary `json:"quotes"`
	TotalQuotes   int32          `json:"total_quotes"`
	CanCreateMore bool           `json:"can_create_more"`
}

// QuoteEvent is published once per committed status transition.
type QuoteEvent struct {
	EventID        string          `json:"event_id"`
	QuoteID        int32           `json:"quote_id"`
	RentalID       int32           `json:"rental_id"`
	QuoteNumber    int32           `json:"quote_number"`
	PreviousStatus QuoteStatus     `json:"previous_status,omitempty"`
	Status         QuoteStatus     `json:"status"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	Actor          Role            `json:"actor"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
