package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/medreview-console/internal/domain"
	"github.com/spec-kit/medreview-console/internal/events"
)

// publishEvent stamps and publishes a domain event. Used by every mutating
// service so the cache layer and the doctor stats subscriber see a uniform
// signal shape.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, actor *domain.Account, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if actor != nil {
		event.Actor = events.Actor{AccountID: actor.ID, Role: actor.Role}
	}
	_ = dispatcher.Publish(ctx, event)
}
