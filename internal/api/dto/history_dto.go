package dto

import (
	"encoding/json"
	"time"

	"github.com/supportdesk/ticket-api/internal/domain"
)

// HistoryEntryResponse is one audit entry on the wire.
type HistoryEntryResponse struct {
	ID         string          `json:"id"`
	TicketID   string          `json:"ticketId"`
	ActorID    string          `json:"actorId"`
	ActorEmail string          `json:"actorEmail"`
	ActorRole  domain.Role     `json:"actorRole"`
	ChangeType string          `json:"changeType"`
	Detail     json.RawMessage `json:"detail"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// FromHistory maps an audit entry to the wire representation.
func FromHistory(entry *domain.TicketHistory) HistoryEntryResponse {
	detail := json.RawMessage(entry.Detail)
	if !json.Valid(detail) {
		detail = json.RawMessage("{}")
	}
	return HistoryEntryResponse{
		ID:         entry.ID,
		TicketID:   entry.TicketID,
		ActorID:    entry.ActorID,
		ActorEmail: entry.ActorEmail,
		ActorRole:  entry.ActorRole,
		ChangeType: entry.ChangeType,
		Detail:     detail,
		CreatedAt:  entry.CreatedAt,
	}
}
