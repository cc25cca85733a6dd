package worker

import (
	"github.com/spec-kit/helpdesk/internal/service"
)

// StartEventLogWorker registers the event log handlers.
func StartEventLogWorker(eventLog *service.EventLogService) {
	if eventLog == nil {
		return
	}
	eventLog.RegisterHandlers()
}
