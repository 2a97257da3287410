package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
	"github.com/appdotbuilder/attendance-tracker/internal/domain/repository"
)

func newAttendanceRepoMock(t *testing.T) (*AttendanceRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewAttendanceRepository(mock), mock
}

func dayBounds() (time.Time, time.Time) {
	return entity.DayWindow(time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local))
}

func TestAttendanceRepository_Create(t *testing.T) {
	repo, mock := newAttendanceRepoMock(t)
	now := time.Now()
	lat, lng := 40.7128, -74.0060
	addr := "Office"

	mock.ExpectQuery(`INSERT INTO attendance_records`).
		WithArgs("u1", entity.CheckIn, now, &lat, &lng, &addr).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("rec-1", now, now))

	rec := &entity.AttendanceRecord{
		UserID: "u1", Type: entity.CheckIn, RecordedAt: now,
		Latitude: &lat, Longitude: &lng, LocationAddress: &addr,
	}
	err := repo.Create(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, "rec-1", rec.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_HasOpenCheckIn(t *testing.T) {
	repo, mock := newAttendanceRepoMock(t)
	from, to := dayBounds()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("u1", from, to).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	open, err := repo.HasOpenCheckIn(context.Background(), "u1", from, to)

	require.NoError(t, err)
	assert.True(t, open)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_HasCheckIn_None(t *testing.T) {
	repo, mock := newAttendanceRepoMock(t)
	from, to := dayBounds()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("u1", from, to).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	has, err := repo.HasCheckIn(context.Background(), "u1", from, to)

	require.NoError(t, err)
	assert.False(t, has)
	require.NoError(t, mock.ExpectationsWereMet())
}

func attendanceCols(withUser bool) []string {
	cols := []string{"id", "user_id", "type", "recorded_at", "latitude", "longitude", "location_address", "created_at", "updated_at"}
	if withUser {
		cols = append(cols, "name", "email")
	}
	return cols
}

func TestAttendanceRepository_FindPage_ByUser(t *testing.T) {
	repo, mock := newAttendanceRepoMock(t)
	now := time.Now()
	uid := "u1"

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attendance_records r WHERE r\.user_id = \$1`).
		WithArgs(uid).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`FROM attendance_records r WHERE r\.user_id = \$1 ORDER BY r\.recorded_at DESC LIMIT \$2`).
		WithArgs(uid, 20).
		WillReturnRows(pgxmock.NewRows(attendanceCols(false)).
			AddRow("rec-1", uid, entity.CheckIn, now, nil, nil, nil, now, now))

	recs, total, err := repo.FindPage(context.Background(), repository.AttendanceFilter{UserID: &uid, Limit: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, recs, 1)
	assert.Equal(t, "rec-1", recs[0].ID)
	assert.Nil(t, recs[0].Latitude)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_FindPage_AllWithUser(t *testing.T) {
	repo, mock := newAttendanceRepoMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attendance_records r`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`JOIN users u ON u\.id = r\.user_id ORDER BY r\.recorded_at DESC OFFSET \$1 LIMIT \$2`).
		WithArgs(20, 20).
		WillReturnRows(pgxmock.NewRows(attendanceCols(true)).
			AddRow("rec-2", "u2", entity.CheckOut, now, nil, nil, nil, now, now, "Jane", "jane@company.com"))

	recs, total, err := repo.FindPage(context.Background(), repository.AttendanceFilter{WithUser: true, Offset: 20, Limit: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, recs, 1)
	assert.Equal(t, "Jane", recs[0].UserName)
	assert.Equal(t, "jane@company.com", recs[0].UserEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_LatestOfType_None(t *testing.T) {
	repo, mock := newAttendanceRepoMock(t)
	from, to := dayBounds()

	mock.ExpectQuery(`ORDER BY r\.recorded_at DESC\s+LIMIT 1`).
		WithArgs("u1", entity.CheckOut, from, to).
		WillReturnRows(pgxmock.NewRows(attendanceCols(false)))

	rec, err := repo.LatestOfType(context.Background(), "u1", entity.CheckOut, from, to)

	require.NoError(t, err)
	assert.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_TodayCheckIns(t *testing.T) {
	repo, mock := newAttendanceRepoMock(t)
	from, to := dayBounds()
	now := time.Now()

	mock.ExpectQuery(`WHERE r\.type = 'check_in'`).
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows(attendanceCols(true)).
			AddRow("rec-1", "u1", entity.CheckIn, now, nil, nil, nil, now, now, "John", "john@company.com"))

	recs, err := repo.TodayCheckIns(context.Background(), from, to)

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "John", recs[0].UserName)
	require.NoError(t, mock.ExpectationsWereMet())
}
