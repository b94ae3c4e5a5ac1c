// Package quote holds the negotiation rules: the lifecycle state machine,
// the revision gate and the per-rental quote cap. Everything here is pure;
// persistence and notification live in the service layer.
package quote

import (
	"strings"
	"time"

	"quote-negotiation-backend/internal/domain"
)

type ActionKind string

const (
	ActionManagerApprove  ActionKind = "MANAGER_APPROVE"
	ActionManagerReject   ActionKind = "MANAGER_REJECT"
	ActionStaffRevise     ActionKind = "STAFF_REVISE"
	ActionCustomerApprove ActionKind = "CUSTOMER_APPROVE"
	ActionCustomerReject  ActionKind = "CUSTOMER_REJECT"
	ActionExpire          ActionKind = "EXPIRE"
)

func (k ActionKind) isCustomer() bool {
	return k == ActionCustomerApprove || k == ActionCustomerReject
}

// Action is one request against a quote. Only the fields relevant to Kind
// are read: Feedback for MANAGER_REJECT, Reason for CUSTOMER_REJECT,
// Revision for STAFF_REVISE.
type Action struct {
	Kind     ActionKind
	Actor    domain.Role
	Feedback string
	Reason   string
	Revision Revision
	// ExpectedVersion, when non-zero, must match the quote's current version.
	ExpectedVersion int32
	At              time.Time
}

var transitions = map[domain.QuoteStatus]map[ActionKind]domain.QuoteStatus{
	domain.QuoteStatusPendingManager: {
		ActionManagerApprove: domain.QuoteStatusPendingCustomer,
		ActionManagerReject:  domain.QuoteStatusRejectedManager,
	},
	domain.QuoteStatusRejectedManager: {
		ActionStaffRevise: domain.QuoteStatusPendingManager,
	},
	domain.QuoteStatusPendingCustomer: {
		ActionCustomerApprove: domain.QuoteStatusApproved,
		ActionCustomerReject:  domain.QuoteStatusRejectedCustomer,
	},
	domain.QuoteStatusRejectedCustomer: {
		ActionExpire: domain.QuoteStatusExpired,
	},
	domain.QuoteStatusApproved: {},
	domain.QuoteStatusExpired:  {},
}

var actionRoles = map[ActionKind]domain.Role{
	ActionManagerApprove:  domain.RoleManager,
	ActionManagerReject:   domain.RoleManager,
	ActionStaffRevise:     domain.RoleStaff,
	ActionCustomerApprove: domain.RoleCustomer,
	ActionCustomerReject:  domain.RoleCustomer,
	ActionExpire:          domain.RoleSystem,
}

// Next returns the status reached by applying kind in status from.
func Next(from domain.QuoteStatus, kind ActionKind) (domain.QuoteStatus, bool) {
	to, ok := transitions[from][kind]
	return to, ok
}

// Apply runs one action against q and returns the updated copy. q itself is
// never modified, so a failed action leaves the caller's value untouched.
func Apply(q domain.Quote, a Action) (domain.Quote, error) {
	role, ok := actionRoles[a.Kind]
	if !ok {
		return q, &domain.ValidationError{Field: "action", Message: "unknown action " + string(a.Kind)}
	}
	if a.Actor != role {
		return q, &domain.ForbiddenError{Role: a.Actor, Action: string(a.Kind)}
	}
	if a.ExpectedVersion != 0 && a.ExpectedVersion != q.Version {
		return q, &domain.StaleStateError{
			QuoteID:         q.ID,
			ExpectedStatus:  q.Status,
			ActualStatus:    q.Status,
			ExpectedVersion: a.ExpectedVersion,
			ActualVersion:   q.Version,
		}
	}

	to, ok := Next(q.Status, a.Kind)
	if !ok {
		if a.Kind.isCustomer() && q.Status.IsPastCustomerReview() {
			return q, &domain.StaleStateError{
				QuoteID:        q.ID,
				ExpectedStatus: domain.QuoteStatusPendingCustomer,
				ActualStatus:   q.Status,
			}
		}
		return q, &domain.InvalidTransitionError{QuoteID: q.ID, From: q.Status, Action: string(a.Kind)}
	}

	next := q
	switch a.Kind {
	case ActionManagerReject:
		feedback := strings.TrimSpace(a.Feedback)
		if feedback == "" {
			return q, &domain.MissingFeedbackError{QuoteID: q.ID}
		}
		next.ManagerFeedback = feedback
	case ActionStaffRevise:
		if err := applyRevision(&next, a.Revision); err != nil {
			return q, err
		}
		next.ManagerFeedback = ""
	case ActionCustomerReject:
		next.CustomerReason = strings.TrimSpace(a.Reason)
	}

	at := a.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	next.Status = to
	next.Version = q.Version + 1
	next.UpdatedAt = at
	return next, nil
}
