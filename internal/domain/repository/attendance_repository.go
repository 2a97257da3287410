package repository

import (
	"context"
	"time"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
)

// AttendanceFilter narrows paged attendance reads. A nil UserID means all
// users (admin view). WithUser asks for the owning user's name/email to be
// joined onto each row.
type AttendanceFilter struct {
	UserID   *string
	WithUser bool
	Offset   int
	Limit    int
}

// AttendanceRepository is the append-only store for attendance events.
// The admission rule's day-scoped checks are exposed as named capability
// methods rather than composable query fragments; note that HasCheckIn is an
// existence-only check while HasOpenCheckIn tracks open/closed state — the
// check-out rule deliberately uses the weaker one.
type AttendanceRepository interface {
	// Create appends one immutable record. There is no update operation.
	Create(ctx context.Context, rec *entity.AttendanceRecord) error

	// HasOpenCheckIn reports whether the user has a check_in inside
	// [from, to) that is not closed by a check_out recorded strictly after
	// the most recent check_in in the window.
	HasOpenCheckIn(ctx context.Context, userID string, from, to time.Time) (bool, error)

	// HasCheckIn reports whether any check_in exists inside [from, to),
	// regardless of whether it has been closed.
	HasCheckIn(ctx context.Context, userID string, from, to time.Time) (bool, error)

	// FindPage returns one page of records, newest first, plus the total
	// count for the filter.
	FindPage(ctx context.Context, f AttendanceFilter) ([]entity.AttendanceRecord, int64, error)

	// RecentByUser returns up to limit most recent records for one user.
	RecentByUser(ctx context.Context, userID string, limit int) ([]entity.AttendanceRecord, error)

	// LatestOfType returns the newest record of the given type for the user
	// inside [from, to), or nil when none exists.
	LatestOfType(ctx context.Context, userID string, typ entity.EventType, from, to time.Time) (*entity.AttendanceRecord, error)

	CountInRange(ctx context.Context, from, to time.Time) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountOfTypeByUser(ctx context.Context, userID string, typ entity.EventType, from, to time.Time) (int64, error)

	// TodayCheckIns returns all check_in records inside [from, to) across
	// users, newest first, with user info joined.
	TodayCheckIns(ctx context.Context, from, to time.Time) ([]entity.AttendanceRecord, error)
}
