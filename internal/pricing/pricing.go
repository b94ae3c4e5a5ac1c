package pricing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

var ErrInvalidEventWindow = errors.New("event end must be after event start")

var (
	DepositShare = decimal.RequireFromString("0.3")
	PaymentShare = decimal.RequireFromString("0.7")

	halfHour  = decimal.RequireFromString("0.5")
	hourNanos = decimal.NewFromInt(int64(time.Hour))
	two       = decimal.NewFromInt(2)
)

// Input carries everything the engine needs to price one quote.
type Input struct {
	Package          PackageTier
	EventStart       time.Time
	EventEnd         time.Time
	City             string
	CustomizationFee decimal.Decimal
}

// DeliveryQuote is the result of a delivery band lookup.
type DeliveryQuote struct {
	Fee        decimal.Decimal
	DistanceKm decimal.Decimal
	Matched    bool
}

// Breakdown contains the line items of a priced quote.
type Breakdown struct {
	RawHours           decimal.Decimal
	BillableHours      decimal.Decimal
	RentalFee          decimal.Decimal
	StaffFee           decimal.Decimal
	DamageDeposit      decimal.Decimal
	DeliveryFee        decimal.Decimal
	DeliveryDistanceKm decimal.Decimal
	CustomizationFee   decimal.Decimal
}

// Totals contains the two-phase roll-up of a breakdown.
type Totals struct {
	TotalDeposit decimal.Decimal
	TotalPayment decimal.Decimal
	GrandTotal   decimal.Decimal
}

// Result groups the priced line items and their totals.
type Result struct {
	Breakdown Breakdown
	Totals    Totals
}

// RawHours returns the fractional number of hours between start and end.
func RawHours(start, end time.Time) (decimal.Decimal, error) {
	if !end.After(start) {
		return decimal.Zero, ErrInvalidEventWindow
	}
	return decimal.NewFromInt(int64(end.Sub(start))).Div(hourNanos), nil
}

// BillableHours applies the package minimum and rounds up to the next half hour.
// Rounding never goes down so a partial half hour is always billed.
func BillableHours(raw, minHours decimal.Decimal) decimal.Decimal {
	hours := decimal.Max(raw, minHours)
	return hours.Mul(two).Ceil().Mul(halfHour)
}

// LookupDelivery matches the city against the delivery bands by
// case-insensitive substring. Unmatched cities get the default band.
func LookupDelivery(city string) DeliveryQuote {
	needle := normalizeCity(city)
	if needle != "" {
		for _, band := range deliveryBands {
			if strings.Contains(needle, normalizeCity(band.Matcher)) {
				return DeliveryQuote{Fee: band.Fee, DistanceKm: band.DistanceKm, Matched: true}
			}
		}
	}
	return DeliveryQuote{Fee: DefaultDeliveryFee, DistanceKm: DefaultDeliveryDistanceKm}
}

func normalizeCity(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// SplitTotals computes the deposit/payment split. Only rentalFee+staffFee is
// split 30/70; the damage deposit is entirely deposit, delivery and
// customization are entirely payment.
func SplitTotals(rentalFee, staffFee, damageDeposit, deliveryFee, customizationFee decimal.Decimal) Totals {
	base := rentalFee.Add(staffFee)
	deposit := base.Mul(DepositShare).Add(damageDeposit)
	payment := base.Mul(PaymentShare).Add(deliveryFee).Add(customizationFee)
	return Totals{
		TotalDeposit: deposit,
		TotalPayment: payment,
		GrandTotal:   deposit.Add(payment),
	}
}

// Calculate prices a quote from catalog data, the event window and staff input.
func Calculate(in Input) (Result, error) {
	if in.CustomizationFee.IsNegative() {
		return Result{}, fmt.Errorf("customization fee must not be negative: %s", in.CustomizationFee)
	}

	raw, err := RawHours(in.EventStart, in.EventEnd)
	if err != nil {
		return Result{}, err
	}
	billable := BillableHours(raw, in.Package.MinHours)

	rentalFee := in.Package.HourlyRate.Mul(billable)
	staffFee := in.Package.StaffFeePerHour.
		Mul(decimal.NewFromInt32(in.Package.OperatorCount)).
		Mul(billable)
	delivery := LookupDelivery(in.City)

	b := Breakdown{
		RawHours:           raw,
		BillableHours:      billable,
		RentalFee:          rentalFee,
		StaffFee:           staffFee,
		DamageDeposit:      in.Package.DamageDeposit,
		DeliveryFee:        delivery.Fee,
		DeliveryDistanceKm: delivery.DistanceKm,
		CustomizationFee:   in.CustomizationFee,
	}

	return Result{
		Breakdown: b,
		Totals:    SplitTotals(b.RentalFee, b.StaffFee, b.DamageDeposit, b.DeliveryFee, b.CustomizationFee),
	}, nil
}
