package worker

import (
	"github.com/spec-kit/complaint-service/internal/service"
)

// StartEventRelay subscribes the relay to complaint events.
func StartEventRelay(relay *service.EventRelay) {
	if relay == nil {
		return
	}
	relay.RegisterHandlers()
}
