package quote

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"quote-negotiation-backend/internal/domain"
)

// Field names a quote field as it appears on the wire.
type Field string

const (
	FieldRentalFee        Field = "rentalFee"
	FieldStaffFee         Field = "staffFee"
	FieldDamageDeposit    Field = "damageDeposit"
	FieldDeliveryFee      Field = "deliveryFee"
	FieldCustomizationFee Field = "customizationFee"
	FieldStaffDescription Field = "staffDescription"
)

type FieldClass int

const (
	// Adjustable fields may change when staff revise a manager-rejected quote.
	Adjustable FieldClass = iota
	// Locked fields are fixed at creation for the life of the quote.
	Locked
)

func (c FieldClass) String() string {
	if c == Locked {
		return "Locked"
	}
	return "Adjustable"
}

var fieldClasses = map[Field]FieldClass{
	FieldRentalFee:        Locked,
	FieldStaffFee:         Locked,
	FieldDamageDeposit:    Locked,
	FieldDeliveryFee:      Adjustable,
	FieldCustomizationFee: Adjustable,
	FieldStaffDescription: Adjustable,
}

// monetary fields in a fixed order so gate errors are deterministic
var feeFields = []Field{
	FieldRentalFee,
	FieldStaffFee,
	FieldDamageDeposit,
	FieldDeliveryFee,
	FieldCustomizationFee,
}

// moneyScale is the number of fractional digits the quotes table stores.
const moneyScale = 2

// checkMoney validates a caller-supplied amount for an adjustable field.
func checkMoney(f Field, v decimal.Decimal) error {
	if v.IsNegative() {
		return &domain.ValidationError{Field: string(f), Message: "must not be negative"}
	}
	if !v.Equal(v.Round(moneyScale)) {
		return &domain.ValidationError{Field: string(f), Message: "must have at most 2 decimal places"}
	}
	return nil
}

// Classify reports the class of a field. ok is false for unknown fields.
func Classify(f Field) (class FieldClass, ok bool) {
	class, ok = fieldClasses[f]
	return class, ok
}

// Revision is a staff correction of a manager-rejected quote. Fees holds the
// monetary fields the caller wants to set; StaffDescription is always required.
type Revision struct {
	Fees             map[Field]decimal.Decimal
	StaffDescription string
}

func feeRef(q *domain.Quote, f Field) *decimal.Decimal {
	switch f {
	case FieldRentalFee:
		return &q.RentalFee
	case FieldStaffFee:
		return &q.StaffFee
	case FieldDamageDeposit:
		return &q.DamageDeposit
	case FieldDeliveryFee:
		return &q.DeliveryFee
	case FieldCustomizationFee:
		return &q.CustomizationFee
	}
	return nil
}

// CheckRevision runs the revision gate against q without modifying it.
func CheckRevision(q *domain.Quote, rev Revision) error {
	desc := strings.TrimSpace(rev.StaffDescription)
	if desc == "" {
		return &domain.ValidationError{Field: string(FieldStaffDescription), Message: "is required"}
	}

	var unknown []string
	for f := range rev.Fees {
		if feeRef(q, f) == nil {
			unknown = append(unknown, string(f))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &domain.ValidationError{Field: unknown[0], Message: "is not a revisable monetary field"}
	}

	changed := desc != q.StaffDescription
	for _, f := range feeFields {
		v, ok := rev.Fees[f]
		if !ok {
			continue
		}
		current := *feeRef(q, f)
		if fieldClasses[f] == Locked {
			if !v.Equal(current) {
				return &domain.FieldLockedError{Field: string(f)}
			}
			continue
		}
		if err := checkMoney(f, v); err != nil {
			return err
		}
		if !v.Equal(current) {
			changed = true
		}
	}

	if !changed {
		return &domain.NoChangeError{QuoteID: q.ID}
	}
	return nil
}

// applyRevision gates rev and writes the adjustable fields onto q.
func applyRevision(q *domain.Quote, rev Revision) error {
	if err := CheckRevision(q, rev); err != nil {
		return err
	}
	for _, f := range feeFields {
		if v, ok := rev.Fees[f]; ok && fieldClasses[f] == Adjustable {
			*feeRef(q, f) = v
		}
	}
	q.StaffDescription = strings.TrimSpace(rev.StaffDescription)
	return nil
}
