package dto

import (
	"time"

	"github.com/supportdesk/ticket-api/internal/domain"
)

// CreateTicketRequest payload. Omitted enum fields take their defaults.
type CreateTicketRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	Status        domain.TicketStatus   `json:"status"`
	Category      domain.TicketCategory `json:"category"`
	CustomerEmail string                `json:"customerEmail"`
	CustomerName  string                `json:"customerName"`
	AssignedTo    *string               `json:"assignedTo"`
}

// AssignTicketRequest payload for PUT /api/tickets/:id/assign.
type AssignTicketRequest struct {
	AgentID   string `json:"agentId"`
	AgentName string `json:"agentName"`
}

// TicketResponse mirrors the persisted wire field names.
type TicketResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	Status        domain.TicketStatus   `json:"status"`
	Category      domain.TicketCategory `json:"category"`
	CustomerEmail string                `json:"customerEmail"`
	CustomerName  string                `json:"customerName,omitempty"`
	AssignedTo    *string               `json:"assignedTo,omitempty"`
	AssignedAgent *string               `json:"assignedAgent,omitempty"`
	CreatedBy     *string               `json:"createdBy,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// FromTicket maps the domain aggregate to the wire representation.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		Title:         ticket.Title,
		Description:   ticket.Description,
		Priority:      ticket.Priority,
		Status:        ticket.Status,
		Category:      ticket.Category,
		CustomerEmail: ticket.CustomerEmail,
		CustomerName:  ticket.CustomerName,
		AssignedTo:    ticket.AssignedTo,
		AssignedAgent: ticket.AssignedAgent,
		CreatedBy:     ticket.CreatedBy,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}
