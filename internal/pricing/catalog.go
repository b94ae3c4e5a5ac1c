package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownPackage = errors.New("unknown package tier")

// PackageTier is one row of the package catalog. Amounts are VND.
type PackageTier struct {
	Name            string
	HourlyRate      decimal.Decimal
	StaffFeePerHour decimal.Decimal
	OperatorCount   int32
	DamageDeposit   decimal.Decimal
	MinHours        decimal.Decimal
}

// DeliveryBand maps a city matcher to a delivery fee and distance.
type DeliveryBand struct {
	Matcher    string
	Fee        decimal.Decimal
	DistanceKm decimal.Decimal
}

var (
	DefaultDeliveryFee        = decimal.NewFromInt(1_500_000)
	DefaultDeliveryDistanceKm = decimal.NewFromInt(100)
)

var packages = []PackageTier{
	{
		Name:            "Basic",
		HourlyRate:      decimal.NewFromInt(3_500_000),
		StaffFeePerHour: decimal.NewFromInt(150_000),
		OperatorCount:   1,
		DamageDeposit:   decimal.NewFromInt(5_000_000),
		MinHours:        decimal.NewFromInt(2),
	},
	{
		Name:            "Standard",
		HourlyRate:      decimal.NewFromInt(5_500_000),
		StaffFeePerHour: decimal.NewFromInt(200_000),
		OperatorCount:   2,
		DamageDeposit:   decimal.NewFromInt(10_000_000),
		MinHours:        decimal.NewFromInt(2),
	},
	{
		Name:            "Premium",
		HourlyRate:      decimal.NewFromInt(8_000_000),
		StaffFeePerHour: decimal.NewFromInt(250_000),
		OperatorCount:   3,
		DamageDeposit:   decimal.NewFromInt(20_000_000),
		MinHours:        decimal.NewFromInt(3),
	},
}

// Evaluated top to bottom, first match wins. Keep the HCM aliases first:
// "Thành phố Hồ Chí Minh" must not fall through to a later band.
var deliveryBands = []DeliveryBand{
	{Matcher: "hồ chí minh", Fee: decimal.Zero, DistanceKm: decimal.Zero},
	{Matcher: "ho chi minh", Fee: decimal.Zero, DistanceKm: decimal.Zero},
	{Matcher: "hcm", Fee: decimal.Zero, DistanceKm: decimal.Zero},
	{Matcher: "sài gòn", Fee: decimal.Zero, DistanceKm: decimal.Zero},
	{Matcher: "saigon", Fee: decimal.Zero, DistanceKm: decimal.Zero},
	{Matcher: "bình dương", Fee: decimal.NewFromInt(500_000), DistanceKm: decimal.NewFromInt(30)},
	{Matcher: "đồng nai", Fee: decimal.NewFromInt(600_000), DistanceKm: decimal.NewFromInt(35)},
	{Matcher: "long an", Fee: decimal.NewFromInt(700_000), DistanceKm: decimal.NewFromInt(45)},
	{Matcher: "vũng tàu", Fee: decimal.NewFromInt(1_200_000), DistanceKm: decimal.NewFromInt(95)},
	{Matcher: "cần thơ", Fee: decimal.NewFromInt(2_500_000), DistanceKm: decimal.NewFromInt(170)},
	{Matcher: "đà nẵng", Fee: decimal.NewFromInt(6_000_000), DistanceKm: decimal.NewFromInt(960)},
	{Matcher: "hà nội", Fee: decimal.NewFromInt(9_000_000), DistanceKm: decimal.NewFromInt(1_700)},
}

// LookupPackage finds a package tier by name, ignoring case.
func LookupPackage(name string) (PackageTier, error) {
	for _, p := range packages {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return PackageTier{}, ErrUnknownPackage
}

// Packages returns a copy of the catalog in display order.
func Packages() []PackageTier {
	out := make([]PackageTier, len(packages))
	copy(out, packages)
	return out
}

// DeliveryBands returns a copy of the delivery table in evaluation order.
func DeliveryBands() []DeliveryBand {
	out := make([]DeliveryBand, len(deliveryBands))
	copy(out, deliveryBands)
	return out
}
