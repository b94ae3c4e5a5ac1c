package domain

import (
	"errors"
	"fmt"
)

var (
	ErrQuoteNotFound  = errors.New("quote not found")
	ErrRentalNotFound = errors.New("rental not found")

	ErrNotificationNotFound = errors.New("notification not found or access denied")
)

// CapExceededError is returned when a rental already holds MaxQuotesPerRental quotes.
type CapExceededError struct {
	RentalID int32
	Count    int32
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("rental %d already has %d of %d quotes", e.RentalID, e.Count, MaxQuotesPerRental)
}

// DuplicateActiveQuoteError is returned when another quote of the rental is
// awaiting the customer or already approved.
type DuplicateActiveQuoteError struct {
	RentalID      int32
	ActiveQuoteID int32
	ActiveStatus  QuoteStatus
}

func (e *DuplicateActiveQuoteError) Error() string {
	return fmt.Sprintf("rental %d already has quote %d in status %s", e.RentalID, e.ActiveQuoteID, e.ActiveStatus)
}

// ValidationError reports a bad or missing request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MissingFeedbackError is returned when a manager rejects without feedback.
type MissingFeedbackError struct {
	QuoteID int32
}

func (e *MissingFeedbackError) Error() string {
	return fmt.Sprintf("manager feedback is required to reject quote %d", e.QuoteID)
}

// FieldLockedError is returned when a revision touches a phase-1 field.
type FieldLockedError struct {
	Field string
}

func (e *FieldLockedError) Error() string {
	return fmt.Sprintf("field %s is locked after quote creation", e.Field)
}

// NoChangeError is returned when a revision leaves every field as it was.
type NoChangeError struct {
	QuoteID int32
}

func (e *NoChangeError) Error() string {
	return fmt.Sprintf("revision of quote %d changes nothing", e.QuoteID)
}

// InvalidTransitionError is returned when the action is not allowed from the current status.
type InvalidTransitionError struct {
	QuoteID int32
	From    QuoteStatus
	Action  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("quote %d: action %s not allowed in status %s", e.QuoteID, e.Action, e.From)
}

// StaleStateError is returned when the quote changed since the caller read it.
// The caller must re-fetch and decide again.
type StaleStateError struct {
	QuoteID         int32
	ExpectedStatus  QuoteStatus
	ActualStatus    QuoteStatus
	ExpectedVersion int32
	ActualVersion   int32
}

func (e *StaleStateError) Error() string {
	if e.ExpectedVersion != 0 && e.ExpectedVersion != e.ActualVersion {
		return fmt.Sprintf("quote %d was modified concurrently: expected version %d, found %d", e.QuoteID, e.ExpectedVersion, e.ActualVersion)
	}
	return fmt.Sprintf("quote %d is no longer %s (now %s)", e.QuoteID, e.ExpectedStatus, e.ActualStatus)
}

// ForbiddenError is returned when the actor's role may not perform the action.
type ForbiddenError struct {
	Role   Role
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %s may not perform %s", e.Role, e.Action)
}

// IsRejection reports whether err is a business refusal the caller can act
// on, as opposed to an infrastructure failure.
func IsRejection(err error) bool {
	if errors.Is(err, ErrQuoteNotFound) || errors.Is(err, ErrRentalNotFound) || errors.Is(err, ErrNotificationNotFound) {
		return true
	}
	var (
		capErr     *CapExceededError
		dup        *DuplicateActiveQuoteError
		validation *ValidationError
		feedback   *MissingFeedbackError
		locked     *FieldLockedError
		noChange   *NoChangeError
		invalid    *InvalidTransitionError
		stale      *StaleStateError
		forbidden  *ForbiddenError
	)
	return errors.As(err, &capErr) || errors.As(err, &dup) || errors.As(err, &validation) ||
		errors.As(err, &feedback) || errors.As(err, &locked) || errors.As(err, &noChange) ||
		errors.As(err, &invalid) || errors.As(err, &stale) || errors.As(err, &forbidden)
}
