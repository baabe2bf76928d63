package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/supportdesk/ticket-api/internal/domain"
	"github.com/supportdesk/ticket-api/internal/events"
	"github.com/supportdesk/ticket-api/internal/repository"
	apperrors "github.com/supportdesk/ticket-api/pkg/util/errorutil"
)

// HistoryService records an audit entry for every ticket event and serves
// the per-ticket trail. Deleted tickets keep their trail; the entries are
// the only record left of them.
type HistoryService struct {
	dispatcher events.Dispatcher
	history    repository.HistoryRepository
	logger     *zap.Logger
}

// NewHistoryService creates the service.
func NewHistoryService(dispatcher events.Dispatcher, history repository.HistoryRepository, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		dispatcher: dispatcher,
		history:    history,
		logger:     logger,
	}
}

// RegisterHandlers subscribes the recorder to all ticket events.
func (h *HistoryService) RegisterHandlers() {
	if h.dispatcher == nil {
		return
	}
	h.dispatcher.Subscribe(events.EventTicketCreated, h.record)
	h.dispatcher.Subscribe(events.EventTicketUpdated, h.record)
	h.dispatcher.Subscribe(events.EventTicketAssigned, h.record)
	h.dispatcher.Subscribe(events.EventTicketDeleted, h.record)
}

// ListByTicket returns the audit trail, oldest first.
func (h *HistoryService) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	entries, err := h.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if entries == nil {
		entries = []domain.TicketHistory{}
	}
	return entries, nil
}

func (h *HistoryService) record(ctx context.Context, event events.Event) error {
	detail, err := json.Marshal(event.Payload)
	if err != nil {
		detail = []byte("{}")
	}
	entry := &domain.TicketHistory{
		TicketID:   event.TicketID,
		ActorID:    event.Actor.ID,
		ActorEmail: event.Actor.Email,
		ActorRole:  event.Actor.Role,
		ChangeType: string(event.Type),
		Detail:     string(detail),
	}
	if err := h.history.Create(ctx, entry); err != nil {
		// An audit failure must not fail the mutation that triggered it.
		h.logger.Error("record ticket history", zap.String("ticket_id", event.TicketID), zap.Error(err))
	}
	return nil
}
