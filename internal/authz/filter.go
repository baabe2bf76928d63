// Package authz holds the role-based authorization filter for ticket
// mutations. Every decision is a pure function of the actor, the target
// ticket, and the requested field set; the package keeps no state between
// calls.
package authz

import (
	"github.com/supportdesk/ticket-api/internal/domain"
	apperrors "github.com/supportdesk/ticket-api/pkg/util/errorutil"
)

// Fields maps wire field names to requested new values.
type Fields map[string]any

// Per-role allow-lists for update narrowing.
var (
	agentUpdatableFields = []string{
		domain.FieldStatus,
		domain.FieldAssignedTo,
		domain.FieldAssignedAgent,
		domain.FieldTitle,
		domain.FieldDescription,
		domain.FieldPriority,
		domain.FieldCategory,
	}
	userUpdatableFields = []string{
		domain.FieldTitle,
		domain.FieldDescription,
		domain.FieldPriority,
		domain.FieldCategory,
	}
)

// narrow returns a new field set containing only the allowed keys. The
// input is never mutated, so a later rejection leaves the request intact.
func narrow(fields Fields, allowed []string) Fields {
	out := make(Fields, len(allowed))
	for _, key := range allowed {
		if value, ok := fields[key]; ok {
			out[key] = value
		}
	}
	return out
}

// FilterUpdate decides whether the actor may update the ticket and returns
// the narrowed field set that takes effect. Admins pass through unfiltered;
// agents are narrowed and may only assign to themselves; users must own the
// ticket and are narrowed further. Requested fields outside the actor's
// allow-list are dropped silently, never rejected.
func FilterUpdate(actor domain.Actor, ticket *domain.Ticket, fields Fields) (Fields, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return fields, nil

	case domain.RoleAgent:
		// Self-assignment is checked before narrowing so that a request
		// assigning another agent fails outright instead of losing the
		// offending field.
		if assignee, ok := fields[domain.FieldAssignedAgent]; ok {
			if id, isString := assignee.(string); !isString || id != actor.ID {
				return nil, apperrors.NewForbidden("Agents can only assign tickets to themselves.")
			}
		}
		return narrow(fields, agentUpdatableFields), nil

	case domain.RoleUser:
		if ticket.CustomerEmail != actor.Email {
			return nil, apperrors.NewForbidden("Access denied. You can only update your own tickets.")
		}
		return narrow(fields, userUpdatableFields), nil

	default:
		return nil, apperrors.NewForbidden("Access denied. Invalid user role.")
	}
}

// AuthorizeAssign decides whether the actor may assign a ticket to the
// given agent. Only admins and agents may assign; agents only to themselves.
func AuthorizeAssign(actor domain.Actor, agentID string) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleAgent:
		if agentID != actor.ID {
			return apperrors.NewForbidden("Agents can only assign tickets to themselves.")
		}
		return nil
	default:
		return apperrors.NewForbidden("Access denied. Only admins and agents can assign tickets.")
	}
}

// AuthorizeDelete decides whether the actor may delete the ticket. Admins
// always may, owners may delete their own tickets, and agents never may.
func AuthorizeDelete(actor domain.Actor, ticket *domain.Ticket) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleUser:
		if ticket.CustomerEmail != actor.Email {
			return apperrors.NewForbidden("Access denied. You can only delete your own tickets.")
		}
		return nil
	default:
		return apperrors.NewForbidden("Access denied. Only admins can delete tickets.")
	}
}

// Scope restricts read-side listing to the tickets the actor may see.
type Scope struct {
	// CustomerEmail, when set, restricts results to tickets owned by the
	// given customer.
	CustomerEmail *string
	// AgentIDOrUnassigned, when set, restricts results to tickets assigned
	// to the given agent or not assigned at all.
	AgentIDOrUnassigned *string
	// MatchNone reports that the actor may see no tickets at all.
	MatchNone bool
}

// ListScope returns the visibility scope for the actor's role. Unknown
// roles see nothing, never everything.
func ListScope(actor domain.Actor) Scope {
	switch actor.Role {
	case domain.RoleAdmin:
		return Scope{}
	case domain.RoleAgent:
		id := actor.ID
		return Scope{AgentIDOrUnassigned: &id}
	case domain.RoleUser:
		email := actor.Email
		return Scope{CustomerEmail: &email}
	default:
		return Scope{MatchNone: true}
	}
}
