package quote

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/pricing"
)

// Draft prices a new quote for rental. The quote number is left at zero;
// it is assigned by the store under the creation lock.
func Draft(rental *domain.Rental, customizationFee decimal.Decimal, staffDescription string, now time.Time) (domain.Quote, error) {
	desc := strings.TrimSpace(staffDescription)
	if desc == "" {
		return domain.Quote{}, &domain.ValidationError{Field: string(FieldStaffDescription), Message: "is required"}
	}
	if err := checkMoney(FieldCustomizationFee, customizationFee); err != nil {
		return domain.Quote{}, err
	}

	tier, err := pricing.LookupPackage(rental.PackageTier)
	if err != nil {
		return domain.Quote{}, &domain.ValidationError{Field: "packageTier", Message: err.Error()}
	}

	res, err := pricing.Calculate(pricing.Input{
		Package:          tier,
		EventStart:       rental.EventStart,
		EventEnd:         rental.EventEnd,
		City:             rental.City,
		CustomizationFee: customizationFee,
	})
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidEventWindow) {
			return domain.Quote{}, &domain.ValidationError{Field: "eventWindow", Message: err.Error()}
		}
		return domain.Quote{}, err
	}

	b := res.Breakdown
	return domain.Quote{
		RentalID:           rental.ID,
		Status:             domain.QuoteStatusPendingManager,
		RentalFee:          b.RentalFee,
		StaffFee:           b.StaffFee,
		DamageDeposit:      b.DamageDeposit,
		DeliveryFee:        b.DeliveryFee,
		CustomizationFee:   b.CustomizationFee,
		PackageTier:        tier.Name,
		BillableHours:      b.BillableHours,
		DeliveryDistanceKm: b.DeliveryDistanceKm,
		StaffDescription:   desc,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}
