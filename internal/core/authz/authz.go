// Package authz decides whether a user may perform an action on a poll.
// A static action-to-roles matrix is checked against the user's effective
// role set: their static role plus, when they own the target poll, the
// derived creator role.
package authz

import (
	"fmt"

	"github.com/quorumpoll/quorum/internal/core/domain"
)

type Action string

const (
	ActionCreate     Action = "create"
	ActionList       Action = "list"
	ActionVote       Action = "vote"
	ActionDetails    Action = "details"
	ActionClose      Action = "close"
	ActionDelete     Action = "delete"
	ActionCategories Action = "categories"
)

// Matrix maps an action to the roles allowed to perform it. There is no
// role hierarchy: admin is permitted only where listed.
type Matrix map[Action][]domain.Role

func DefaultMatrix() Matrix {
	return Matrix{
		ActionCreate:     {domain.RoleUser, domain.RoleAdmin},
		ActionList:       {domain.RoleUser, domain.RoleAdmin},
		ActionVote:       {domain.RoleUser, domain.RoleAdmin},
		ActionDetails:    {domain.RoleUser, domain.RoleAdmin},
		ActionClose:      {domain.RoleAdmin, domain.RoleCreator},
		ActionDelete:     {domain.RoleAdmin, domain.RoleCreator},
		ActionCategories: {domain.RoleUser, domain.RoleAdmin},
	}
}

// Engine is stateless and side-effect free. It must run before any
// mutating operation on a poll, never after.
type Engine struct {
	matrix Matrix
}

func NewEngine(matrix Matrix) *Engine {
	return &Engine{matrix: matrix}
}

// EffectiveRoles resolves the role set for one request. The creator role is
// granted only when the action targets an existing poll owned by the user,
// which is why callers must load the poll before authorizing.
func (e *Engine) EffectiveRoles(user *domain.User, poll *domain.Poll) []domain.Role {
	roles := []domain.Role{user.Role}
	if poll != nil && user.ID == poll.CreatorID {
		roles = append(roles, domain.RoleCreator)
	}
	return roles
}

// Authorize permits the action iff the matrix entry intersects the
// effective role set.
func (e *Engine) Authorize(action Action, roles []domain.Role) error {
	for _, allowed := range e.matrix[action] {
		for _, role := range roles {
			if role == allowed {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: action %s", domain.ErrForbidden, action)
}
