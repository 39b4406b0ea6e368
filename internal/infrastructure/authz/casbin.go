// Package authz decides which incident statuses each role may set.
package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/ornik8/incident-sync/internal/core/domain"
)

const statusModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj)
`

// DefaultPolicy is the workflow each portal drives. Admins may set anything.
var DefaultPolicy = map[domain.Role][]domain.IncidentStatus{
	domain.RoleOfficer: {
		domain.StatusDraft,
		domain.StatusSigned,
		domain.StatusPendingApproval,
	},
	domain.RoleSupervisor: {
		domain.StatusDraft,
		domain.StatusPendingApproval,
		domain.StatusApproved,
	},
	domain.RoleInvestigator: {
		domain.StatusUnderInvestigation,
		domain.StatusInvestigated,
		domain.StatusClosed,
	},
}

// Enforcer implements ports.Authorizer on an in-memory casbin model.
type Enforcer struct {
	e *casbin.Enforcer
}

// New builds an enforcer loaded with policy plus the admin wildcard.
func New(policy map[domain.Role][]domain.IncidentStatus) (*Enforcer, error) {
	m, err := model.NewModelFromString(statusModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}

	rules := [][]string{{string(domain.RoleAdmin), "*"}}
	for role, statuses := range policy {
		for _, st := range statuses {
			rules = append(rules, []string{string(role), string(st)})
		}
	}
	if _, err := e.AddPolicies(rules); err != nil {
		return nil, fmt.Errorf("authz policy: %w", err)
	}
	return &Enforcer{e: e}, nil
}

func (a *Enforcer) CanSetStatus(role domain.Role, status domain.IncidentStatus) (bool, error) {
	return a.e.Enforce(string(role), string(status))
}
