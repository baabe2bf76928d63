package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/ticket-api/internal/authz"
	"github.com/supportdesk/ticket-api/internal/domain"
	apperrors "github.com/supportdesk/ticket-api/pkg/util/errorutil"
)

func ticketOwnedBy(email string) *domain.Ticket {
	return &domain.Ticket{
		ID:            "t-1",
		Title:         "printer on fire",
		Description:   "it is actually on fire",
		Priority:      domain.TicketPriorityMedium,
		Status:        domain.TicketStatusOpen,
		Category:      domain.TicketCategoryTechnical,
		CustomerEmail: email,
	}
}

func TestFilterUpdate_Admin(t *testing.T) {
	actor := domain.Actor{ID: "admin-1", Email: "admin@support.com", Role: domain.RoleAdmin}
	requested := authz.Fields{
		"status":        "Closed",
		"assignedAgent": "someone-else",
		"category":      "Billing",
		"customerEmail": "new@example.com",
	}

	narrowed, err := authz.FilterUpdate(actor, ticketOwnedBy("bob@example.com"), requested)

	require.NoError(t, err)
	assert.Equal(t, requested, narrowed, "admins pass through unfiltered")
}

func TestFilterUpdate_Agent(t *testing.T) {
	actor := domain.Actor{ID: "agent-1", Email: "agent@support.com", Role: domain.RoleAgent}
	ticket := ticketOwnedBy("bob@example.com")

	t.Run("allowed fields kept, unknown fields dropped silently", func(t *testing.T) {
		narrowed, err := authz.FilterUpdate(actor, ticket, authz.Fields{
			"status":        "In Progress",
			"assignedAgent": "agent-1",
			"notAField":     1,
		})

		require.NoError(t, err)
		assert.Equal(t, authz.Fields{
			"status":        "In Progress",
			"assignedAgent": "agent-1",
		}, narrowed)
	})

	t.Run("customerEmail is outside the agent allow-list", func(t *testing.T) {
		narrowed, err := authz.FilterUpdate(actor, ticket, authz.Fields{
			"title":         "new title",
			"customerEmail": "hijack@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, authz.Fields{"title": "new title"}, narrowed)
	})

	t.Run("assigning another agent fails even with legal fields present", func(t *testing.T) {
		_, err := authz.FilterUpdate(actor, ticket, authz.Fields{
			"status":        "In Progress",
			"assignedAgent": "agent-2",
		})

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	})

	t.Run("non-string assignee is rejected, not coerced", func(t *testing.T) {
		_, err := authz.FilterUpdate(actor, ticket, authz.Fields{"assignedAgent": 42})

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	})

	// Null or empty assignee would be an unassignment; only admins may do
	// that, so for an agent it is Forbidden like any other non-self value.
	t.Run("null or empty assignee is rejected, not treated as absent", func(t *testing.T) {
		for _, value := range []any{nil, ""} {
			_, err := authz.FilterUpdate(actor, ticket, authz.Fields{"assignedAgent": value})

			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
		}
	})
}

func TestFilterUpdate_User(t *testing.T) {
	actor := domain.Actor{ID: "user-1", Email: "bob@example.com", Role: domain.RoleUser}

	t.Run("owner may update, privileged fields stripped silently", func(t *testing.T) {
		narrowed, err := authz.FilterUpdate(actor, ticketOwnedBy("bob@example.com"), authz.Fields{
			"title":  "T2",
			"status": "Closed",
		})

		require.NoError(t, err)
		assert.Equal(t, authz.Fields{"title": "T2"}, narrowed)
	})

	t.Run("assignment fields never survive for a user", func(t *testing.T) {
		narrowed, err := authz.FilterUpdate(actor, ticketOwnedBy("bob@example.com"), authz.Fields{
			"priority":      "High",
			"assignedAgent": "user-1",
			"assignedTo":    "Bob",
		})

		require.NoError(t, err)
		assert.Equal(t, authz.Fields{"priority": "High"}, narrowed)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := authz.FilterUpdate(actor, ticketOwnedBy("alice@example.com"), authz.Fields{"title": "T2"})

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	})

	t.Run("ownership match is exact on the stored lowercase value", func(t *testing.T) {
		shouty := domain.Actor{ID: "user-1", Email: "BOB@example.com", Role: domain.RoleUser}

		_, err := authz.FilterUpdate(shouty, ticketOwnedBy("bob@example.com"), authz.Fields{"title": "T2"})

		require.Error(t, err)
	})
}

func TestFilterUpdate_UnknownRole(t *testing.T) {
	actor := domain.Actor{ID: "x", Email: "x@example.com", Role: domain.Role("superuser")}

	_, err := authz.FilterUpdate(actor, ticketOwnedBy("x@example.com"), authz.Fields{"title": "T2"})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestFilterUpdate_DoesNotMutateRequest(t *testing.T) {
	actor := domain.Actor{ID: "user-1", Email: "bob@example.com", Role: domain.RoleUser}
	requested := authz.Fields{"title": "T2", "status": "Closed"}

	_, err := authz.FilterUpdate(actor, ticketOwnedBy("bob@example.com"), requested)

	require.NoError(t, err)
	assert.Equal(t, authz.Fields{"title": "T2", "status": "Closed"}, requested)
}

func TestAuthorizeAssign(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Actor
		agentID string
		wantErr bool
	}{
		{"admin assigns anyone", domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, "agent-2", false},
		{"agent assigns self", domain.Actor{ID: "agent-1", Role: domain.RoleAgent}, "agent-1", false},
		{"agent assigns other", domain.Actor{ID: "agent-1", Role: domain.RoleAgent}, "agent-2", true},
		{"user may not assign", domain.Actor{ID: "user-1", Role: domain.RoleUser}, "user-1", true},
		{"unknown role may not assign", domain.Actor{ID: "x", Role: domain.Role("root")}, "x", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := authz.AuthorizeAssign(tc.actor, tc.agentID)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAuthorizeDelete(t *testing.T) {
	ticket := ticketOwnedBy("bob@example.com")

	tests := []struct {
		name    string
		actor   domain.Actor
		wantErr bool
	}{
		{"admin deletes any ticket", domain.Actor{ID: "admin-1", Email: "admin@support.com", Role: domain.RoleAdmin}, false},
		{"owner deletes own ticket", domain.Actor{ID: "user-1", Email: "bob@example.com", Role: domain.RoleUser}, false},
		{"non-owner user forbidden", domain.Actor{ID: "user-2", Email: "alice@example.com", Role: domain.RoleUser}, true},
		{"agent forbidden even when assigned", domain.Actor{ID: "agent-1", Email: "agent@support.com", Role: domain.RoleAgent}, true},
		{"unknown role forbidden", domain.Actor{ID: "x", Email: "x@example.com", Role: domain.Role("")}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := authz.AuthorizeDelete(tc.actor, ticket)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestListScope(t *testing.T) {
	t.Run("user sees only own tickets", func(t *testing.T) {
		scope := authz.ListScope(domain.Actor{ID: "user-1", Email: "bob@example.com", Role: domain.RoleUser})

		require.NotNil(t, scope.CustomerEmail)
		assert.Equal(t, "bob@example.com", *scope.CustomerEmail)
		assert.Nil(t, scope.AgentIDOrUnassigned)
		assert.False(t, scope.MatchNone)
	})

	t.Run("agent sees own or unassigned tickets", func(t *testing.T) {
		scope := authz.ListScope(domain.Actor{ID: "agent-1", Email: "agent@support.com", Role: domain.RoleAgent})

		require.NotNil(t, scope.AgentIDOrUnassigned)
		assert.Equal(t, "agent-1", *scope.AgentIDOrUnassigned)
		assert.Nil(t, scope.CustomerEmail)
	})

	t.Run("admin is unrestricted", func(t *testing.T) {
		scope := authz.ListScope(domain.Actor{ID: "admin-1", Role: domain.RoleAdmin})

		assert.Equal(t, authz.Scope{}, scope)
	})

	t.Run("unknown role matches nothing, never everything", func(t *testing.T) {
		scope := authz.ListScope(domain.Actor{ID: "x", Role: domain.Role("superuser")})

		assert.True(t, scope.MatchNone)
		assert.Nil(t, scope.CustomerEmail)
		assert.Nil(t, scope.AgentIDOrUnassigned)
	})
}
