package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayWindow(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	at := time.Date(2026, 3, 10, 23, 59, 59, 0, loc)
	from, to := DayWindow(at)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, loc), to)
	assert.Equal(t, loc, from.Location())

	// window is half-open: 23:59:59 is inside, next midnight is not
	assert.True(t, at.Before(to))
}

// On a DST transition day the window still ends at the next calendar
// midnight, not 24 clock hours later.
func TestDayWindow_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	at := time.Date(2026, 3, 8, 12, 0, 0, 0, loc) // spring forward
	from, to := DayWindow(at)

	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), to)
	assert.Equal(t, 23*time.Hour, to.Sub(from))
}

func TestEventTypeValid(t *testing.T) {
	assert.True(t, CheckIn.Valid())
	assert.True(t, CheckOut.Valid())
	assert.False(t, EventType("lunch").Valid())
	assert.False(t, EventType("").Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleEmployee.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("manager").Valid())
}
