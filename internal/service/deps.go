package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/authz"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/metrics"
)

// Deps carries what the domain services share
type Deps struct {
	Repos   *repository.Repositories
	Authz   *authz.Service
	Cache   *CacheService
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

func (d Deps) normalized() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
	}
	return d
}

// NewServices builds every domain service over one set of dependencies.
// The auth service lives in its own package and is attached by the caller.
func NewServices(deps Deps) *Services {
	deps = deps.normalized()
	directory := NewDirectoryService(deps)
	scopes := NewScopeResolver(deps.Repos.Actor)
	return &Services{
		Directory: directory,
		Status:    NewStatusService(deps, scopes),
		Category:  NewCategoryService(deps, scopes),
		Summary:   NewSummaryService(deps, scopes),
		Conflict:  NewConflictService(deps, scopes),
	}
}

// storeError logs a lower-layer failure in full and returns a generic error
func storeError(log *zap.Logger, msg string, err error, fields ...zap.Field) error {
	log.Error(msg, append(fields, zap.Error(err))...)
	return errors.NewInternalError("An unexpected error occurred", err)
}
