package notify

import (
	"fmt"

	"quote-negotiation-backend/internal/domain"
)

type message struct {
	recipients []int32
	title      string
	body       string
}

// messageFor picks who must hear about the event and what they are told.
func messageFor(e domain.QuoteEvent, r *domain.Rental) message {
	total := e.GrandTotal.StringFixed(0)
	switch e.Status {
	case domain.QuoteStatusPendingManager:
		title := "Quote awaiting approval"
		if e.PreviousStatus == domain.QuoteStatusRejectedManager {
			title = "Revised quote awaiting approval"
		}
		return message{
			recipients: []int32{r.ManagerID},
			title:      title,
			body:       fmt.Sprintf("Quote #%d for rental %d (%s VND) needs your review.", e.QuoteNumber, e.RentalID, total),
		}
	case domain.QuoteStatusRejectedManager:
		return message{
			recipients: []int32{r.StaffID},
			title:      "Quote rejected by manager",
			body:       fmt.Sprintf("Quote #%d for rental %d was rejected. Review the feedback and revise it.", e.QuoteNumber, e.RentalID),
		}
	case domain.QuoteStatusPendingCustomer:
		return message{
			recipients: []int32{r.CustomerID},
			title:      "Your quote is ready",
			body:       fmt.Sprintf("Quote #%d for your event totals %s VND. Please approve or reject it.", e.QuoteNumber, total),
		}
	case domain.QuoteStatusApproved:
		return message{
			recipients: []int32{r.StaffID},
			title:      "Quote approved by customer",
			body:       fmt.Sprintf("The customer approved quote #%d for rental %d (%s VND).", e.QuoteNumber, e.RentalID, total),
		}
	case domain.QuoteStatusRejectedCustomer:
		return message{
			recipients: []int32{r.StaffID},
			title:      "Quote rejected by customer",
			body:       fmt.Sprintf("The customer rejected quote #%d for rental %d.", e.QuoteNumber, e.RentalID),
		}
	case domain.QuoteStatusExpired:
		return message{
			recipients: []int32{r.StaffID, r.CustomerID},
			title:      "Price negotiation closed",
			body:       fmt.Sprintf("No further quotes can be issued for rental %d.", e.RentalID),
		}
	}
	return message{}
}
