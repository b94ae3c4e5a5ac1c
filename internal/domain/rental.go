package domain

import "time"

// Rental is owned by the booking system; the quote engine only reads it.
// One rental carries exactly one price negotiation.
type Rental struct {
	ID            int32     `json:"id"`
	PackageTier   string    `json:"package_tier"`
	EventStart    time.Time `json:"event_start"`
	EventEnd      time.Time `json:"event_end"`
	City          string    `json:"city"`
	StaffID       int32     `json:"staff_id"`
	ManagerID     int32     `json:"manager_id"`
	CustomerID    int32     `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CreatedOn     time.Time `json:"created_on"`
}
