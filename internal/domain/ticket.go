package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets. Any status may
// follow any other; there is no enforced transition graph.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// TicketCategory enumerates request categories.
type TicketCategory string

const (
	TicketCategoryTechnical TicketCategory = "Technical"
	TicketCategoryBilling   TicketCategory = "Billing"
	TicketCategoryFeature   TicketCategory = "Feature Request"
	TicketCategoryGeneral   TicketCategory = "General"
)

// Valid reports whether the status is a known enum value.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Valid reports whether the priority is a known enum value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Valid reports whether the category is a known enum value.
func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryTechnical, TicketCategoryBilling, TicketCategoryFeature, TicketCategoryGeneral:
		return true
	}
	return false
}

// Wire/storage field names for ticket mutations.
const (
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldPriority      = "priority"
	FieldStatus        = "status"
	FieldCategory      = "category"
	FieldCustomerEmail = "customerEmail"
	FieldCustomerName  = "customerName"
	FieldAssignedTo    = "assignedTo"
	FieldAssignedAgent = "assignedAgent"
)

// Ticket is the aggregate for support requests. CustomerEmail is always
// stored lowercase.
type Ticket struct {
	ID            string
	Title         string
	Description   string
	Priority      TicketPriority
	Status        TicketStatus
	Category      TicketCategory
	CustomerEmail string
	CustomerName  string
	AssignedTo    *string
	AssignedAgent *string
	CreatedBy     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DefaultCustomerName derives a display name from the local part of the
// customer's email address.
func DefaultCustomerName(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
