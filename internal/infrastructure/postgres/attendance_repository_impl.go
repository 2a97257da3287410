package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
	"github.com/appdotbuilder/attendance-tracker/internal/domain/repository"
)

type AttendanceRepository struct {
	db DB
}

func NewAttendanceRepository(db DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, rec *entity.AttendanceRecord) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO attendance_records (user_id, type, recorded_at, latitude, longitude, location_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, rec.UserID, rec.Type, rec.RecordedAt, rec.Latitude, rec.Longitude, rec.LocationAddress)

	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return fmt.Errorf("insert attendance record: %w", err)
	}
	return nil
}

// HasOpenCheckIn checks whether the day's most recent check_in is still
// open, i.e. no check_out in the window was recorded strictly after it.
func (r *AttendanceRepository) HasOpenCheckIn(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	var open bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM attendance_records ci
			WHERE ci.user_id = $1 AND ci.type = 'check_in'
			  AND ci.recorded_at >= $2 AND ci.recorded_at < $3
			  AND NOT EXISTS (
				SELECT 1 FROM attendance_records co
				WHERE co.user_id = $1 AND co.type = 'check_out'
				  AND co.recorded_at >= $2 AND co.recorded_at < $3
				  AND co.recorded_at > (
					SELECT MAX(recorded_at) FROM attendance_records
					WHERE user_id = $1 AND type = 'check_in'
					  AND recorded_at >= $2 AND recorded_at < $3
				  )
			  )
		)
	`, userID, from, to).Scan(&open)
	if err != nil {
		return false, fmt.Errorf("open check-in lookup: %w", err)
	}
	return open, nil
}

func (r *AttendanceRepository) HasCheckIn(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	var has bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM attendance_records
			WHERE user_id = $1 AND type = 'check_in'
			  AND recorded_at >= $2 AND recorded_at < $3
		)
	`, userID, from, to).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("check-in lookup: %w", err)
	}
	return has, nil
}

const recordColumns = `r.id, r.user_id, r.type, r.recorded_at, r.latitude, r.longitude, r.location_address, r.created_at, r.updated_at`

func scanRecord(row pgx.Row, withUser bool) (*entity.AttendanceRecord, error) {
	var rec entity.AttendanceRecord
	dest := []any{&rec.ID, &rec.UserID, &rec.Type, &rec.RecordedAt,
		&rec.Latitude, &rec.Longitude, &rec.LocationAddress, &rec.CreatedAt, &rec.UpdatedAt}
	if withUser {
		dest = append(dest, &rec.UserName, &rec.UserEmail)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) FindPage(ctx context.Context, f repository.AttendanceFilter) ([]entity.AttendanceRecord, int64, error) {
	var where string
	countArgs := []any{}
	if f.UserID != nil {
		where = " WHERE r.user_id = $1"
		countArgs = append(countArgs, *f.UserID)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_records r`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attendance records: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + recordColumns)
	if f.WithUser {
		sb.WriteString(", u.name, u.email")
	}
	sb.WriteString(" FROM attendance_records r")
	if f.WithUser {
		sb.WriteString(" JOIN users u ON u.id = r.user_id")
	}
	sb.WriteString(where)
	sb.WriteString(" ORDER BY r.recorded_at DESC")
	args := countArgs
	n := len(args)
	if f.Offset > 0 {
		n++
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", n))
		args = append(args, f.Offset)
	}
	if f.Limit > 0 {
		n++
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", n))
		args = append(args, f.Limit)
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select attendance records: %w", err)
	}
	defer rows.Close()

	var recs []entity.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows, f.WithUser)
		if err != nil {
			return nil, 0, fmt.Errorf("scan attendance row: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate attendance rows: %w", err)
	}
	return recs, total, nil
}

func (r *AttendanceRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]entity.AttendanceRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records r
		WHERE r.user_id = $1
		ORDER BY r.recorded_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent attendance: %w", err)
	}
	defer rows.Close()

	var recs []entity.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scan attendance row: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance rows: %w", err)
	}
	return recs, nil
}

func (r *AttendanceRepository) LatestOfType(ctx context.Context, userID string, typ entity.EventType, from, to time.Time) (*entity.AttendanceRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records r
		WHERE r.user_id = $1 AND r.type = $2
		  AND r.recorded_at >= $3 AND r.recorded_at < $4
		ORDER BY r.recorded_at DESC
		LIMIT 1
	`, userID, typ, from, to)

	rec, err := scanRecord(row, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest attendance lookup: %w", err)
	}
	return rec, nil
}

func (r *AttendanceRepository) CountInRange(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance_records
		WHERE recorded_at >= $1 AND recorded_at < $2
	`, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attendance in range: %w", err)
	}
	return n, nil
}

func (r *AttendanceRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return n, nil
}

func (r *AttendanceRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance_records WHERE user_id = $1
	`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attendance by user: %w", err)
	}
	return n, nil
}

func (r *AttendanceRepository) CountOfTypeByUser(ctx context.Context, userID string, typ entity.EventType, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance_records
		WHERE user_id = $1 AND type = $2
		  AND recorded_at >= $3 AND recorded_at < $4
	`, userID, typ, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attendance of type by user: %w", err)
	}
	return n, nil
}

func (r *AttendanceRepository) TodayCheckIns(ctx context.Context, from, to time.Time) ([]entity.AttendanceRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+recordColumns+`, u.name, u.email
		FROM attendance_records r
		JOIN users u ON u.id = r.user_id
		WHERE r.type = 'check_in' AND r.recorded_at >= $1 AND r.recorded_at < $2
		ORDER BY r.recorded_at DESC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("select today's check-ins: %w", err)
	}
	defer rows.Close()

	var recs []entity.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scan attendance row: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance rows: %w", err)
	}
	return recs, nil
}

var _ repository.AttendanceRepository = (*AttendanceRepository)(nil)
