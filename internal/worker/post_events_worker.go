package worker

import (
	"github.com/dodream/blog-api/internal/service"
)

// StartPostEventsWorker registers post event handlers.
func StartPostEventsWorker(listener *service.PostEventListener) {
	if listener == nil {
		return
	}
	listener.RegisterHandlers()
}
