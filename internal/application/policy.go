package application

import (
	"errors"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
)

var (
	// ErrForbidden is the single undifferentiated denial: every failed
	// policy check produces it, whatever the rule.
	ErrForbidden = errors.New("forbidden")
)

// Action enumerates everything the policy gates.
type Action int

const (
	ActionSubmitAttendance Action = iota
	ActionListAttendance
	ActionViewUser
	ActionListUsers
	ActionCreateUser
	ActionUpdateUser
	ActionDeleteUser
)

// Authorize evaluates the static two-role policy table for an action
// against a target user id (empty when the action has no target, "self"
// semantics apply when target equals the actor's id). It returns nil to
// permit or ErrForbidden to deny.
//
// Self-deletion is blocked unconditionally, before any role check: an admin
// deleting their own account is denied like everyone else.
func Authorize(actor entity.Actor, action Action, targetUserID string) error {
	if action == ActionDeleteUser && targetUserID == actor.ID {
		return ErrForbidden
	}

	switch actor.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleEmployee:
		switch action {
		case ActionSubmitAttendance:
			return nil
		case ActionListAttendance, ActionViewUser:
			if targetUserID == actor.ID {
				return nil
			}
			return ErrForbidden
		case ActionListUsers, ActionCreateUser, ActionUpdateUser, ActionDeleteUser:
			return ErrForbidden
		default:
			return ErrForbidden
		}
	default:
		// Unknown role: deny.
		return ErrForbidden
	}
}
