package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/supportdesk/ticket-api/internal/authz"
	"github.com/supportdesk/ticket-api/internal/domain"
	"github.com/supportdesk/ticket-api/internal/events"
	"github.com/supportdesk/ticket-api/internal/repository"
	apperrors "github.com/supportdesk/ticket-api/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows. All role decisions are
// delegated to the authz package; the service sequences store access,
// validation, and event publication around them.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	Title         string
	Description   string
	Priority      domain.TicketPriority
	Status        domain.TicketStatus
	Category      domain.TicketCategory
	CustomerEmail string
	CustomerName  string
	AssignedTo    *string
	CreatedBy     *string
}

// TicketListInput describes listing filters on top of the role scope.
type TicketListInput struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Categories []domain.TicketCategory
	Limit      int
	Offset     int
}

// Create validates input, applies defaults, and persists a new ticket.
func (s *TicketService) Create(ctx context.Context, actor domain.Actor, input CreateTicketInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Priority:      input.Priority,
		Status:        input.Status,
		Category:      input.Category,
		CustomerEmail: strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		AssignedTo:    input.AssignedTo,
		CreatedBy:     input.CreatedBy,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	if ticket.Category == "" {
		ticket.Category = domain.TicketCategoryGeneral
	}
	if ticket.CustomerName == "" && ticket.CustomerEmail != "" {
		ticket.CustomerName = domain.DefaultCustomerName(ticket.CustomerEmail)
	}

	if err := validateTicket(ticket); err != nil {
		return nil, err
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:         ticket.Title,
			Priority:      ticket.Priority,
			Category:      ticket.Category,
			CustomerEmail: ticket.CustomerEmail,
		},
	})
	return ticket, nil
}

// Get fetches a single ticket by id.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapTicketErr(err, id)
	}
	return ticket, nil
}

// List returns tickets visible to the actor, newest first.
func (s *TicketService) List(ctx context.Context, actor domain.Actor, input TicketListInput) ([]domain.Ticket, error) {
	scope := authz.ListScope(actor)
	if scope.MatchNone {
		return []domain.Ticket{}, nil
	}
	filter := repository.TicketFilter{
		CustomerEmail:             scope.CustomerEmail,
		AssignedAgentOrUnassigned: scope.AgentIDOrUnassigned,
		Statuses:                  input.Statuses,
		Priorities:                input.Priorities,
		Categories:                input.Categories,
		Limit:                     input.Limit,
		Offset:                    input.Offset,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// Update applies a role-filtered mutation to a ticket. The ticket is
// loaded before any role logic so an absent id always reports NotFound. A
// rejected request leaves stored state untouched.
func (s *TicketService) Update(ctx context.Context, actor domain.Actor, id string, fields authz.Fields) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapTicketErr(err, id)
	}

	narrowed, err := authz.FilterUpdate(actor, ticket, fields)
	if err != nil {
		return nil, err
	}

	changed, err := applyFields(ticket, narrowed)
	if err != nil {
		return nil, err
	}

	ticket.UpdatedAt = time.Now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, s.mapTicketErr(err, id)
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			ChangedFields: changed,
			Status:        ticket.Status,
		},
	})
	return ticket, nil
}

// Assign hands a ticket to an agent and forces it into In Progress,
// whatever its prior status. Role checks run before the ticket lookup,
// mirroring the write path's decision table.
func (s *TicketService) Assign(ctx context.Context, actor domain.Actor, id, agentID, agentName string) (*domain.Ticket, error) {
	if err := authz.AuthorizeAssign(actor, agentID); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapTicketErr(err, id)
	}

	ticket.AssignedAgent = &agentID
	ticket.AssignedTo = &agentName
	ticket.Status = domain.TicketStatusInProgress
	ticket.UpdatedAt = time.Now()

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, s.mapTicketErr(err, id)
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Payload: events.TicketAssignedPayload{
			AgentID:   agentID,
			AgentName: agentName,
		},
	})
	return ticket, nil
}

// Delete removes a ticket subject to the role table: admins always,
// owners for their own tickets, agents never.
func (s *TicketService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return s.mapTicketErr(err, id)
	}

	if err := authz.AuthorizeDelete(actor, ticket); err != nil {
		return err
	}

	if err := s.tickets.Delete(ctx, id); err != nil {
		return s.mapTicketErr(err, id)
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Payload: events.TicketDeletedPayload{
			CustomerEmail: ticket.CustomerEmail,
		},
	})
	return nil
}

func (s *TicketService) mapTicketErr(err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("Ticket", map[string]any{"ticket_id": id})
	}
	return apperrors.MapError(err)
}

func (s *TicketService) publishEvent(ctx context.Context, actor domain.Actor, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	event.Actor = events.Actor{ID: actor.ID, Email: actor.Email, Role: actor.Role}
	_ = s.dispatcher.Publish(ctx, event)
}

// validateTicket enforces the store-level field rules. Messages are joined
// into one string the way the HTTP layer reports validation failures.
func validateTicket(ticket *domain.Ticket) error {
	var problems []string
	if ticket.Title == "" {
		problems = append(problems, "Title is required")
	}
	if ticket.Description == "" {
		problems = append(problems, "Description is required")
	}
	if ticket.CustomerEmail == "" {
		problems = append(problems, "Customer email is required")
	}
	if !ticket.Priority.Valid() {
		problems = append(problems, "Invalid priority value")
	}
	if !ticket.Status.Valid() {
		problems = append(problems, "Invalid status value")
	}
	if !ticket.Category.Valid() {
		problems = append(problems, "Invalid category value")
	}
	if len(problems) > 0 {
		return apperrors.NewValidationError(strings.Join(problems, ", "), nil)
	}
	return nil
}

// applyFields copies a narrowed field set onto the ticket, returning the
// names of the fields that changed. Keys that are not ticket fields are
// ignored; known keys with malformed values fail validation as a whole.
func applyFields(ticket *domain.Ticket, fields authz.Fields) ([]string, error) {
	changed := make([]string, 0, len(fields))
	for key, value := range fields {
		switch key {
		case domain.FieldTitle:
			text, ok := stringValue(value)
			if !ok {
				return nil, apperrors.NewValidationError("Title must be a string", nil)
			}
			ticket.Title = strings.TrimSpace(text)
		case domain.FieldDescription:
			text, ok := stringValue(value)
			if !ok {
				return nil, apperrors.NewValidationError("Description must be a string", nil)
			}
			ticket.Description = strings.TrimSpace(text)
		case domain.FieldPriority:
			text, ok := stringValue(value)
			if !ok || !domain.TicketPriority(text).Valid() {
				return nil, apperrors.NewValidationError("Invalid priority value", nil)
			}
			ticket.Priority = domain.TicketPriority(text)
		case domain.FieldStatus:
			text, ok := stringValue(value)
			if !ok || !domain.TicketStatus(text).Valid() {
				return nil, apperrors.NewValidationError("Invalid status value", nil)
			}
			ticket.Status = domain.TicketStatus(text)
		case domain.FieldCategory:
			text, ok := stringValue(value)
			if !ok || !domain.TicketCategory(text).Valid() {
				return nil, apperrors.NewValidationError("Invalid category value", nil)
			}
			ticket.Category = domain.TicketCategory(text)
		case domain.FieldCustomerEmail:
			text, ok := stringValue(value)
			text = strings.ToLower(strings.TrimSpace(text))
			if !ok || text == "" {
				return nil, apperrors.NewValidationError("Customer email is required", nil)
			}
			ticket.CustomerEmail = text
		case domain.FieldCustomerName:
			text, ok := stringValue(value)
			if !ok {
				return nil, apperrors.NewValidationError("Customer name must be a string", nil)
			}
			ticket.CustomerName = strings.TrimSpace(text)
		case domain.FieldAssignedTo:
			ref, err := optionalStringValue(value, "Assignee name")
			if err != nil {
				return nil, err
			}
			ticket.AssignedTo = ref
		case domain.FieldAssignedAgent:
			ref, err := optionalStringValue(value, "Assigned agent")
			if err != nil {
				return nil, err
			}
			ticket.AssignedAgent = ref
		default:
			// Unknown keys reach here only for admins; the store schema
			// does not have them, so they are dropped.
			continue
		}
		changed = append(changed, key)
	}

	// A narrowed update must still leave the ticket valid.
	var problems []string
	if ticket.Title == "" {
		problems = append(problems, "Title is required")
	}
	if ticket.Description == "" {
		problems = append(problems, "Description is required")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationError(strings.Join(problems, ", "), nil)
	}
	return changed, nil
}

func stringValue(value any) (string, bool) {
	text, ok := value.(string)
	return text, ok
}

func optionalStringValue(value any, label string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	text, ok := value.(string)
	if !ok {
		return nil, apperrors.NewValidationError(label+" must be a string", nil)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	trimmed := strings.TrimSpace(text)
	return &trimmed, nil
}
