package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/medreview-console/internal/events"
	"github.com/spec-kit/medreview-console/internal/persistence"
)

// Named console datasets backed by cached query results in Redis. Each
// lives under the "query:" prefix; invalidation deletes the key so the
// next fetch repopulates it.
const (
	DatasetReviews       = "admin-reviews"
	DatasetUsers         = "admin-users"
	DatasetUserStats     = "admin-user-stats"
	DatasetDoctors       = "admin-doctors"
	DatasetAnalytics     = "admin-analytics"
	DatasetEnhancedStats = "admin-enhanced-stats"
)

const queryKeyPrefix = "query:"

// InvalidationService listens for domain events and drops the cached
// datasets each event renders stale, so console views observe writes on
// their next fetch without polling.
type InvalidationService struct {
	redis  *persistence.Redis
	logger *zap.Logger
}

// InvalidationDependencies bundles requirements for the service.
type InvalidationDependencies struct {
	Redis  *persistence.Redis
	Logger *zap.Logger
}

// NewInvalidationService constructs the service.
func NewInvalidationService(deps InvalidationDependencies) *InvalidationService {
	return &InvalidationService{
		redis:  deps.Redis,
		logger: deps.Logger,
	}
}

// RegisterHandlers wires the dataset mapping onto the dispatcher.
func (s *InvalidationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	subscribe := func(eventType events.EventType, datasets ...string) {
		dispatcher.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			return s.invalidate(ctx, event, datasets)
		})
	}

	subscribe(events.EventReviewStatusChanged, DatasetReviews, DatasetDoctors, DatasetAnalytics, DatasetEnhancedStats)
	subscribe(events.EventReviewDeleted, DatasetReviews, DatasetDoctors, DatasetAnalytics, DatasetEnhancedStats)
	subscribe(events.EventAccountCreated, DatasetUsers, DatasetUserStats, DatasetAnalytics)
	subscribe(events.EventAccountStatusChanged, DatasetUsers, DatasetUserStats)
	subscribe(events.EventAccountRoleChanged, DatasetUsers, DatasetUserStats)
	subscribe(events.EventAccountDeleted, DatasetUsers, DatasetUserStats, DatasetAnalytics)
	subscribe(events.EventDoctorChanged, DatasetDoctors, DatasetAnalytics, DatasetEnhancedStats)
}

func (s *InvalidationService) invalidate(ctx context.Context, event events.Event, datasets []string) error {
	if s.redis == nil || s.redis.Client == nil {
		return nil
	}

	keys := make([]string, 0, len(datasets))
	for _, dataset := range datasets {
		keys = append(keys, queryKeyPrefix+dataset)
	}
	if err := s.redis.Client.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("cache invalidation failed",
			zap.String("event_type", string(event.Type)),
			zap.Strings("datasets", datasets),
			zap.Error(err),
		)
		return err
	}

	s.logger.Debug("cache invalidated",
		zap.String("event_type", string(event.Type)),
		zap.Strings("datasets", datasets),
	)
	return nil
}
