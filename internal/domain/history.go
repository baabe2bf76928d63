package domain

import "time"

// TicketHistory is one audit entry for a ticket. Entries are written by the
// event recorder and never updated.
type TicketHistory struct {
	ID         string
	TicketID   string
	ActorID    string
	ActorEmail string
	ActorRole  Role
	ChangeType string
	Detail     string
	CreatedAt  time.Time
}
