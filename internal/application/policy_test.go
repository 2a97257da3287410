package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
)

func TestAuthorize_Matrix(t *testing.T) {
	admin := entity.Actor{ID: "a1", Role: entity.RoleAdmin}
	employee := entity.Actor{ID: "e1", Role: entity.RoleEmployee}

	cases := []struct {
		name   string
		actor  entity.Actor
		action Action
		target string
		allow  bool
	}{
		{"employee submits own attendance", employee, ActionSubmitAttendance, "e1", true},
		{"employee lists own attendance", employee, ActionListAttendance, "e1", true},
		{"employee lists someone else's attendance", employee, ActionListAttendance, "e2", false},
		{"employee lists all attendance", employee, ActionListAttendance, "", false},
		{"employee views own profile", employee, ActionViewUser, "e1", true},
		{"employee views another profile", employee, ActionViewUser, "e2", false},
		{"employee lists users", employee, ActionListUsers, "", false},
		{"employee creates user", employee, ActionCreateUser, "", false},
		{"employee updates user", employee, ActionUpdateUser, "e2", false},
		{"employee updates self via admin path", employee, ActionUpdateUser, "e1", false},
		{"employee deletes user", employee, ActionDeleteUser, "e2", false},

		{"admin submits attendance", admin, ActionSubmitAttendance, "a1", true},
		{"admin lists all attendance", admin, ActionListAttendance, "", true},
		{"admin lists someone's attendance", admin, ActionListAttendance, "e1", true},
		{"admin views any profile", admin, ActionViewUser, "e1", true},
		{"admin lists users", admin, ActionListUsers, "", true},
		{"admin creates user", admin, ActionCreateUser, "", true},
		{"admin updates user", admin, ActionUpdateUser, "e1", true},
		{"admin deletes another user", admin, ActionDeleteUser, "e1", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.action, tc.target)
			if tc.allow {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

// Self-deletion is denied before any role consideration, so even an admin
// cannot remove their own account.
func TestAuthorize_SelfDeleteAlwaysDenied(t *testing.T) {
	admin := entity.Actor{ID: "a1", Role: entity.RoleAdmin}
	employee := entity.Actor{ID: "e1", Role: entity.RoleEmployee}

	assert.ErrorIs(t, Authorize(admin, ActionDeleteUser, "a1"), ErrForbidden)
	assert.ErrorIs(t, Authorize(employee, ActionDeleteUser, "e1"), ErrForbidden)
}

func TestAuthorize_UnknownRoleDenied(t *testing.T) {
	ghost := entity.Actor{ID: "g1", Role: "superuser"}

	assert.ErrorIs(t, Authorize(ghost, ActionSubmitAttendance, "g1"), ErrForbidden)
	assert.ErrorIs(t, Authorize(ghost, ActionListUsers, ""), ErrForbidden)
}
