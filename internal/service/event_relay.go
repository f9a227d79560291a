package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/events"
)

// Publisher forwards serialized events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// EventRelay logs complaint events and forwards them to a broker when one is configured.
type EventRelay struct {
	dispatcher events.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
}

// NewEventRelay creates the relay. publisher may be nil.
func NewEventRelay(dispatcher events.Dispatcher, publisher Publisher, logger *zap.Logger) *EventRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRelay{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (r *EventRelay) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	r.dispatcher.Subscribe(events.EventComplaintSubmitted, r.handle)
	r.dispatcher.Subscribe(events.EventComplaintStatusChanged, r.handle)
	r.dispatcher.Subscribe(events.EventComplaintDeleted, r.handle)
}

func (r *EventRelay) handle(ctx context.Context, event events.Event) error {
	r.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("complaint_id", event.ComplaintID),
		zap.Any("payload", event.Payload))

	if r.publisher == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := r.publisher.Publish(ctx, string(event.Type), body); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}
