package application

import (
	"context"
	"time"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
	repo "github.com/appdotbuilder/attendance-tracker/internal/domain/repository"
)

// AdminDashboard aggregates organization-wide attendance for admins.
type AdminDashboard struct {
	TotalEmployees   int64
	TotalAdmins      int64
	TodayAttendance  int64
	TotalRecords     int64
	RecentAttendance []entity.AttendanceRecord
	TodayCheckIns    []entity.AttendanceRecord
}

// EmployeeDashboard summarizes the actor's own attendance state.
type EmployeeDashboard struct {
	HasCheckedIn     bool
	HasCheckedOut    bool
	CheckInTime      *time.Time
	CheckOutTime     *time.Time
	MonthlyCheckIns  int64
	TotalRecords     int64
	RecentAttendance []entity.AttendanceRecord
}

const dashboardRecentLimit = 10

// DashboardService shapes the landing-page aggregates per role.
type DashboardService struct {
	Users   repo.UserRepository
	Records repo.AttendanceRepository

	Now func() time.Time
}

func NewDashboardService(users repo.UserRepository, records repo.AttendanceRepository) *DashboardService {
	return &DashboardService{Users: users, Records: records, Now: time.Now}
}

// Admin builds the admin view. Callers gate on role before calling.
func (s *DashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	now := s.Now()
	from, to := entity.DayWindow(now)

	employees, err := s.Users.CountByRole(ctx, entity.RoleEmployee)
	if err != nil {
		return nil, err
	}
	admins, err := s.Users.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	today, err := s.Records.CountInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	total, err := s.Records.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.Records.FindPage(ctx, repo.AttendanceFilter{WithUser: true, Limit: dashboardRecentLimit})
	if err != nil {
		return nil, err
	}
	checkIns, err := s.Records.TodayCheckIns(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		TotalEmployees:   employees,
		TotalAdmins:      admins,
		TodayAttendance:  today,
		TotalRecords:     total,
		RecentAttendance: recent,
		TodayCheckIns:    checkIns,
	}, nil
}

// Employee builds the self view for the acting user.
func (s *DashboardService) Employee(ctx context.Context, actor entity.Actor) (*EmployeeDashboard, error) {
	now := s.Now()
	dayFrom, dayTo := entity.DayWindow(now)
	monthFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthTo := monthFrom.AddDate(0, 1, 0)

	checkIn, err := s.Records.LatestOfType(ctx, actor.ID, entity.CheckIn, dayFrom, dayTo)
	if err != nil {
		return nil, err
	}
	checkOut, err := s.Records.LatestOfType(ctx, actor.ID, entity.CheckOut, dayFrom, dayTo)
	if err != nil {
		return nil, err
	}
	monthly, err := s.Records.CountOfTypeByUser(ctx, actor.ID, entity.CheckIn, monthFrom, monthTo)
	if err != nil {
		return nil, err
	}
	total, err := s.Records.CountByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.Records.RecentByUser(ctx, actor.ID, dashboardRecentLimit)
	if err != nil {
		return nil, err
	}

	d := &EmployeeDashboard{
		HasCheckedIn:     checkIn != nil,
		HasCheckedOut:    checkOut != nil,
		MonthlyCheckIns:  monthly,
		TotalRecords:     total,
		RecentAttendance: recent,
	}
	if checkIn != nil {
		d.CheckInTime = &checkIn.RecordedAt
	}
	if checkOut != nil {
		d.CheckOutTime = &checkOut.RecordedAt
	}
	return d, nil
}
