package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
)

func TestDashboard_Admin(t *testing.T) {
	users := newMemUsers()
	seedUser(users, "a1", "admin@company.com", entity.RoleAdmin, "admin123")
	seedUser(users, "u1", "john@company.com", entity.RoleEmployee, "password123")
	seedUser(users, "u2", "jane@company.com", entity.RoleEmployee, "password123")

	recs := &memRecords{}
	att := newAttendanceService(recs, noon)
	ctx := context.Background()

	// today: u1 checks in; yesterday: u2 full day
	yesterday := noon.AddDate(0, 0, -1)
	att.Now = func() time.Time { return yesterday }
	_, err := att.Submit(ctx, employeeActor("u2"), SubmitInput{Type: entity.CheckIn})
	require.NoError(t, err)
	att.Now = func() time.Time { return yesterday.Add(8 * time.Hour) }
	_, err = att.Submit(ctx, employeeActor("u2"), SubmitInput{Type: entity.CheckOut})
	require.NoError(t, err)
	att.Now = func() time.Time { return noon }
	_, err = att.Submit(ctx, employeeActor("u1"), SubmitInput{Type: entity.CheckIn})
	require.NoError(t, err)

	svc := NewDashboardService(users, recs)
	svc.Now = func() time.Time { return noon }

	d, err := svc.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.TotalEmployees)
	assert.Equal(t, int64(1), d.TotalAdmins)
	assert.Equal(t, int64(1), d.TodayAttendance)
	assert.Equal(t, int64(3), d.TotalRecords)
	require.Len(t, d.TodayCheckIns, 1)
	assert.Equal(t, "u1", d.TodayCheckIns[0].UserID)
	assert.Len(t, d.RecentAttendance, 3)
}

func TestDashboard_Employee(t *testing.T) {
	users := newMemUsers()
	recs := &memRecords{}
	att := newAttendanceService(recs, noon)
	ctx := context.Background()

	att.Now = func() time.Time { return noon }
	_, err := att.Submit(ctx, employeeActor("u1"), SubmitInput{Type: entity.CheckIn})
	require.NoError(t, err)
	att.Now = func() time.Time { return noon.Add(8 * time.Hour) }
	_, err = att.Submit(ctx, employeeActor("u1"), SubmitInput{Type: entity.CheckOut})
	require.NoError(t, err)

	svc := NewDashboardService(users, recs)
	svc.Now = func() time.Time { return noon.Add(9 * time.Hour) }

	d, err := svc.Employee(ctx, employeeActor("u1"))
	require.NoError(t, err)
	assert.True(t, d.HasCheckedIn)
	assert.True(t, d.HasCheckedOut)
	require.NotNil(t, d.CheckInTime)
	assert.Equal(t, noon, *d.CheckInTime)
	require.NotNil(t, d.CheckOutTime)
	assert.Equal(t, noon.Add(8*time.Hour), *d.CheckOutTime)
	assert.Equal(t, int64(1), d.MonthlyCheckIns)
	assert.Equal(t, int64(2), d.TotalRecords)
	assert.Len(t, d.RecentAttendance, 2)
}

func TestDashboard_EmployeeEmptyDay(t *testing.T) {
	svc := NewDashboardService(newMemUsers(), &memRecords{})
	svc.Now = func() time.Time { return noon }

	d, err := svc.Employee(context.Background(), employeeActor("u1"))
	require.NoError(t, err)
	assert.False(t, d.HasCheckedIn)
	assert.False(t, d.HasCheckedOut)
	assert.Nil(t, d.CheckInTime)
	assert.Nil(t, d.CheckOutTime)
	assert.Zero(t, d.MonthlyCheckIns)
}
