// Package worker wires event subscribers at startup.
package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/medreview-console/internal/events"
	"github.com/spec-kit/medreview-console/internal/service"
)

// Dependencies lists everything the subscriber wiring needs.
type Dependencies struct {
	Dispatcher    events.Dispatcher
	DoctorService *service.DoctorService
	Invalidation  *service.InvalidationService
	Logger        *zap.Logger
}

// Start registers all event subscribers. The dispatcher is synchronous, so
// after Start returns every published event reaches the handlers in-line.
func Start(deps Dependencies) {
	deps.DoctorService.RegisterHandlers()
	deps.Invalidation.RegisterHandlers(deps.Dispatcher)
	deps.Logger.Info("event subscribers registered")
}
