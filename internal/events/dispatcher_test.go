package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_DeliversToAllSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var got []string

	d.Subscribe(EventComplaintStatusChanged, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.ComplaintID)
		return errors.New("boom")
	})
	d.Subscribe(EventComplaintStatusChanged, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.ComplaintID)
		return nil
	})
	d.Subscribe(EventComplaintDeleted, func(context.Context, Event) error {
		got = append(got, "wrong type")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventComplaintStatusChanged, ComplaintID: "c-1"})

	assert.NoError(t, err)
	assert.Equal(t, []string{"first:c-1", "second:c-1"}, got)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintSubmitted}))
}
