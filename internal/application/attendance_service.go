package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
	repo "github.com/appdotbuilder/attendance-tracker/internal/domain/repository"
)

var (
	ErrDuplicateCheckIn = errors.New("duplicate check-in")
	ErrMissingCheckIn   = errors.New("missing check-in")
	ErrInvalidEventType = errors.New("invalid event type")
)

// RejectReason is the fixed enumeration reported back on a rejected
// submission. Rejection is a normal outcome, never a system fault.
type RejectReason string

const (
	ReasonDuplicateCheckIn RejectReason = "duplicate_check_in"
	ReasonMissingCheckIn   RejectReason = "missing_check_in"
)

// Message returns the caller-facing rejection text.
func (r RejectReason) Message() string {
	switch r {
	case ReasonDuplicateCheckIn:
		return "You already have an active check-in for today. Please check-out first."
	case ReasonMissingCheckIn:
		return "You must check-in first before checking out."
	}
	return "submission rejected"
}

// Decision is the outcome of one admission evaluation: either Record is set
// (accepted, exactly one row appended) or Reason is set (rejected, nothing
// persisted).
type Decision struct {
	Accepted bool
	Record   *entity.AttendanceRecord
	Reason   RejectReason
}

// SubmitInput carries the caller-supplied part of a submission. The
// timestamp is always assigned by the server; latitude/longitude and
// address are independently optional.
type SubmitInput struct {
	Type            entity.EventType
	Latitude        *float64
	Longitude       *float64
	LocationAddress *string
}

// AttendanceService evaluates the check-in/check-out admission rule and
// serves attendance reads, gated by the visibility policy.
type AttendanceService struct {
	Records repo.AttendanceRepository
	Logger  *logrus.Logger

	// Now is the server clock; overridable in tests.
	Now func() time.Time
}

func NewAttendanceService(records repo.AttendanceRepository, logger *logrus.Logger) *AttendanceService {
	return &AttendanceService{Records: records, Logger: logger, Now: time.Now}
}

// Submit decides whether the actor's requested event is admissible against
// their event history for the current calendar day, and appends the record
// when it is.
//
// check_in is rejected while an open check-in exists (one with no later
// check-out today). check_out is rejected only when no check_in exists
// today at all: a second check-out after a completed pair is accepted. The
// asymmetry is inherited behavior and kept on purpose.
func (s *AttendanceService) Submit(ctx context.Context, actor entity.Actor, in SubmitInput) (*Decision, error) {
	if err := Authorize(actor, ActionSubmitAttendance, actor.ID); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, ErrInvalidEventType
	}

	now := s.Now()
	from, to := entity.DayWindow(now)

	switch in.Type {
	case entity.CheckIn:
		open, err := s.Records.HasOpenCheckIn(ctx, actor.ID, from, to)
		if err != nil {
			return nil, err
		}
		if open {
			return &Decision{Reason: ReasonDuplicateCheckIn}, nil
		}
	case entity.CheckOut:
		has, err := s.Records.HasCheckIn(ctx, actor.ID, from, to)
		if err != nil {
			return nil, err
		}
		if !has {
			return &Decision{Reason: ReasonMissingCheckIn}, nil
		}
	}

	rec := &entity.AttendanceRecord{
		UserID:          actor.ID,
		Type:            in.Type,
		RecordedAt:      now,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		LocationAddress: in.LocationAddress,
	}
	if err := s.Records.Create(ctx, rec); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": actor.ID, "type": in.Type}).Info("attendance recorded")
	}
	return &Decision{Accepted: true, Record: rec}, nil
}

// ListPage is a paged attendance read result.
type ListPage struct {
	Records []entity.AttendanceRecord
	Total   int64
	Page    int
	PerPage int
}

const attendancePageSize = 20

// List returns one page of attendance records, newest first. targetUserID
// selects whose records: the actor's own when it equals actor.ID, a
// specific user's, or every user's when empty — the latter two are admin
// views per the policy.
func (s *AttendanceService) List(ctx context.Context, actor entity.Actor, targetUserID string, page int) (*ListPage, error) {
	target := targetUserID
	if target == "" && !actor.IsAdmin() {
		target = actor.ID
	}
	if err := Authorize(actor, ActionListAttendance, target); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	f := repo.AttendanceFilter{
		WithUser: actor.IsAdmin(),
		Offset:   (page - 1) * attendancePageSize,
		Limit:    attendancePageSize,
	}
	if target != "" {
		f.UserID = &target
	}

	recs, total, err := s.Records.FindPage(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListPage{Records: recs, Total: total, Page: page, PerPage: attendancePageSize}, nil
}
