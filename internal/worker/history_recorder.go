package worker

import (
	"github.com/supportdesk/ticket-api/internal/service"
)

// StartHistoryRecorder registers the audit-trail handlers on the dispatcher.
func StartHistoryRecorder(historyService *service.HistoryService) {
	if historyService == nil {
		return
	}
	historyService.RegisterHandlers()
}
