package authz

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	apperrors "github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
)

// Object is a protected resource kind
type Object string

// Action is an operation on an Object
type Action string

const (
	ObjStatus   Object = "status"
	ObjCategory Object = "category"
	ObjConflict Object = "conflict"
	ObjActor    Object = "actor"
)

const (
	ActWrite        Action = "write"
	ActUpdateOwn    Action = "update_own"
	ActDeleteOwn    Action = "delete_own"
	ActUpdateAny    Action = "update_any"
	ActDeleteAny    Action = "delete_any"
	ActCreate       Action = "create"
	ActAssign       Action = "assign"
	ActList         Action = "list"
	ActResolve      Action = "resolve"
	ActCreateLeader Action = "create_leader"
	ActCreateAny    Action = "create_any"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// defaultPolicies maps each role to what it may do. Ownership checks
// (own record, own category) are applied by the services on top of these.
var defaultPolicies = [][]string{
	{string(domain.RoleSupervisor), string(ObjStatus), string(ActWrite)},
	{string(domain.RoleSupervisor), string(ObjCategory), string(ActCreate)},
	{string(domain.RoleSupervisor), string(ObjCategory), string(ActAssign)},
	{string(domain.RoleSupervisor), string(ObjActor), string(ActCreateLeader)},

	{string(domain.RoleTeamLeader), string(ObjStatus), string(ActWrite)},
	{string(domain.RoleTeamLeader), string(ObjStatus), string(ActUpdateOwn)},
	{string(domain.RoleTeamLeader), string(ObjStatus), string(ActDeleteOwn)},
	{string(domain.RoleTeamLeader), string(ObjCategory), string(ActCreate)},
	{string(domain.RoleTeamLeader), string(ObjCategory), string(ActAssign)},

	{string(domain.RoleAdmin), string(ObjStatus), string(ActUpdateAny)},
	{string(domain.RoleAdmin), string(ObjStatus), string(ActDeleteAny)},
	{string(domain.RoleAdmin), string(ObjConflict), string(ActList)},
	{string(domain.RoleAdmin), string(ObjConflict), string(ActResolve)},
	{string(domain.RoleAdmin), string(ObjActor), string(ActCreateAny)},
}

// Service answers role/action questions from an in-memory casbin policy
type Service struct {
	enforcer *casbin.Enforcer
	log      *zap.Logger
	mu       sync.RWMutex
}

// NewService builds the enforcer with the built-in role policy
func NewService(log *zap.Logger) (*Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to parse model: %w", err)
	}
	enf, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if _, err := enf.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{enforcer: enf, log: log.Named("authz")}, nil
}

// Can reports whether role may perform act on obj. Enforcement errors deny.
func (s *Service) Can(role domain.Role, obj Object, act Action) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ok, err := s.enforcer.Enforce(string(role), string(obj), string(act))
	if err != nil {
		s.log.Error("authz enforce failed",
			zap.String("role", string(role)),
			zap.String("object", string(obj)),
			zap.String("action", string(act)),
			zap.Error(err))
		return false
	}
	return ok
}

// Authorize returns a Forbidden error unless actor may perform act on obj
func (s *Service) Authorize(actor *domain.Actor, obj Object, act Action) error {
	if actor == nil {
		return apperrors.NewAuthenticationError("Authentication required")
	}
	if !s.Can(actor.Role, obj, act) {
		s.log.Debug("authz denied",
			zap.String("actor_id", actor.ID),
			zap.String("role", string(actor.Role)),
			zap.String("object", string(obj)),
			zap.String("action", string(act)))
		return apperrors.NewAuthorizationError(fmt.Sprintf("%s may not %s %s", actor.Role, act, obj))
	}
	return nil
}
