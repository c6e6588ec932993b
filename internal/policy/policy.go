// Package policy decides which roles may drive DV status transitions. The
// rules live in an embedded casbin model so the deployment needs no policy
// files, and the same checker answers both the named transition endpoints and
// status changes smuggled through a generic update.
package policy

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

const objectDV = "dv"

// Role names match the users.role column.
const (
	RoleClerk    = "clerk"
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

type Checker struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewChecker(logger ...*zap.Logger) (*Checker, error) {
	l := zap.L().Named("policy")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("policy")
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	// Clerks move their own paperwork; reviewers decide on it. Admin
	// inherits reviewer and additionally may revert a record to draft.
	rules := [][]string{
		{RoleClerk, objectDV, "submit"},
		{RoleClerk, objectDV, "cancel"},
		{RoleReviewer, objectDV, "submit"},
		{RoleReviewer, objectDV, "cancel"},
		{RoleReviewer, objectDV, "approve"},
		{RoleReviewer, objectDV, "disapprove"},
		{RoleAdmin, objectDV, "revert"},
	}
	if _, err := e.AddPolicies(rules); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicy(RoleAdmin, RoleReviewer); err != nil {
		return nil, err
	}

	return &Checker{enforcer: e, logger: l}, nil
}

// CanTransition reports whether role may perform action on a DV currently in
// fromStatus. The current rules are role-based only; fromStatus is part of
// the signature so status-sensitive rules can be added without touching
// callers.
func (c *Checker) CanTransition(role, fromStatus, action string) bool {
	allowed, err := c.enforcer.Enforce(role, objectDV, action)
	if err != nil {
		c.logger.Error("policy enforce failed",
			zap.String("role", role),
			zap.String("from_status", fromStatus),
			zap.String("action", action),
			zap.Error(err),
		)
		return false
	}
	return allowed
}
