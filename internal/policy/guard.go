package policy

import (
	"fmt"

	"github.com/leon37/Hamhama/internal/model"
)

// RequireAuthenticated 需要已登录的请求方
func RequireAuthenticated(actor *model.Principal) error {
	if actor == nil {
		return model.ErrUnauthenticated
	}
	return nil
}

// RequireRole 需要持有指定角色
func RequireRole(actor *model.Principal, role model.Role) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.HasRole(role) {
		return fmt.Errorf("%w: role %s required", model.ErrAccessDenied, role)
	}
	return nil
}

// RequireSelfOrRole 需要是资源本人，或持有指定角色
func RequireSelfOrRole(actor *model.Principal, ownerID uint, role model.Role) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.UserID == ownerID || actor.HasRole(role) {
		return nil
	}
	return fmt.Errorf("%w: not the owner of user %d", model.ErrAccessDenied, ownerID)
}
