package features

import (
	"go.uber.org/zap"

	"prepwise/internal/repo"
	sv "prepwise/internal/service"
	redis "prepwise/internal/utils/redis"
	rabbit "prepwise/pkg/rabbit/pkg"
)

// Prepwise carries the interview lifecycle: question generation, webhook
// orchestration, feedback aggregation, and the dashboard read views.
type Prepwise struct {
	generator sv.Generator
	repo      *repo.Repository
	rabbit    rabbit.Rabbit
	cache     redis.Redis
	logger    *zap.Logger
}

// New wires the service from explicitly constructed collaborators; the
// process entry point owns all their lifecycles.
func New(repository *repo.Repository, generator sv.Generator, rb rabbit.Rabbit, cache redis.Redis, logger *zap.Logger) *Prepwise {
	return &Prepwise{
		generator: generator,
		repo:      repository,
		rabbit:    rb,
		cache:     cache,
		logger:    logger,
	}
}
