package quote

import "quote-negotiation-backend/internal/domain"

// CanCreateMore reports whether a rental holding count quotes may receive another.
func CanCreateMore(count int) bool {
	return count < domain.MaxQuotesPerRental
}

// CheckCreate enforces the creation preconditions against every existing
// quote of the rental. The cap is checked before the active-quote rule.
// Callers must hold whatever lock makes existing authoritative.
func CheckCreate(rentalID int32, existing []domain.Quote) error {
	if !CanCreateMore(len(existing)) {
		return &domain.CapExceededError{RentalID: rentalID, Count: int32(len(existing))}
	}
	return checkNoneCustomerFacing(rentalID, 0, existing)
}

// EntersCustomerReview reports whether moving a quote from one status to the
// other puts it in front of the customer.
func EntersCustomerReview(from, to domain.QuoteStatus) bool {
	return to.IsCustomerFacing() && !from.IsCustomerFacing()
}

// CheckActivate refuses to put q in front of the customer while a sibling
// quote of the same rental is already there. Callers must hold the rental lock.
func CheckActivate(q *domain.Quote, siblings []domain.Quote) error {
	return checkNoneCustomerFacing(q.RentalID, q.ID, siblings)
}

func checkNoneCustomerFacing(rentalID, exceptID int32, quotes []domain.Quote) error {
	for _, q := range quotes {
		if q.ID != exceptID && q.Status.IsCustomerFacing() {
			return &domain.DuplicateActiveQuoteError{
				RentalID:      rentalID,
				ActiveQuoteID: q.ID,
				ActiveStatus:  q.Status,
			}
		}
	}
	return nil
}

// NextQuoteNumber returns the number the next quote of the rental receives.
func NextQuoteNumber(existing []domain.Quote) int32 {
	var highest int32
	for _, q := range existing {
		if q.QuoteNumber > highest {
			highest = q.QuoteNumber
		}
	}
	return highest + 1
}

// ShouldExpire reports whether the negotiation is exhausted: the cap is
// reached and no quote can still lead to an approval.
func ShouldExpire(quotes []domain.Quote) bool {
	if CanCreateMore(len(quotes)) {
		return false
	}
	for _, q := range quotes {
		if q.Status.IsRevivable() || q.Status == domain.QuoteStatusApproved {
			return false
		}
	}
	return true
}

// Expirable returns the quotes an exhausted negotiation still has to retire.
func Expirable(quotes []domain.Quote) []domain.Quote {
	var out []domain.Quote
	for _, q := range quotes {
		if _, ok := Next(q.Status, ActionExpire); ok {
			out = append(out, q)
		}
	}
	return out
}
