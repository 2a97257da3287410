package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
	repo "github.com/appdotbuilder/attendance-tracker/internal/domain/repository"
)

// memRecords is an in-memory AttendanceRepository for service tests.
type memRecords struct {
	recs []entity.AttendanceRecord
	seq  int
}

func (m *memRecords) Create(_ context.Context, rec *entity.AttendanceRecord) error {
	m.seq++
	rec.ID = fmt.Sprintf("rec-%d", m.seq)
	rec.CreatedAt = rec.RecordedAt
	rec.UpdatedAt = rec.RecordedAt
	m.recs = append(m.recs, *rec)
	return nil
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (m *memRecords) HasOpenCheckIn(_ context.Context, userID string, from, to time.Time) (bool, error) {
	var latestCheckIn *time.Time
	for i := range m.recs {
		r := m.recs[i]
		if r.UserID == userID && r.Type == entity.CheckIn && inWindow(r.RecordedAt, from, to) {
			if latestCheckIn == nil || r.RecordedAt.After(*latestCheckIn) {
				at := r.RecordedAt
				latestCheckIn = &at
			}
		}
	}
	if latestCheckIn == nil {
		return false, nil
	}
	for _, r := range m.recs {
		if r.UserID == userID && r.Type == entity.CheckOut && inWindow(r.RecordedAt, from, to) && r.RecordedAt.After(*latestCheckIn) {
			return false, nil
		}
	}
	return true, nil
}

func (m *memRecords) HasCheckIn(_ context.Context, userID string, from, to time.Time) (bool, error) {
	for _, r := range m.recs {
		if r.UserID == userID && r.Type == entity.CheckIn && inWindow(r.RecordedAt, from, to) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRecords) matching(userID *string) []entity.AttendanceRecord {
	out := make([]entity.AttendanceRecord, 0, len(m.recs))
	for _, r := range m.recs {
		if userID == nil || r.UserID == *userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out
}

func (m *memRecords) FindPage(_ context.Context, f repo.AttendanceFilter) ([]entity.AttendanceRecord, int64, error) {
	all := m.matching(f.UserID)
	total := int64(len(all))
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (m *memRecords) RecentByUser(_ context.Context, userID string, limit int) ([]entity.AttendanceRecord, error) {
	all := m.matching(&userID)
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memRecords) LatestOfType(_ context.Context, userID string, typ entity.EventType, from, to time.Time) (*entity.AttendanceRecord, error) {
	var latest *entity.AttendanceRecord
	for i := range m.recs {
		r := m.recs[i]
		if r.UserID == userID && r.Type == typ && inWindow(r.RecordedAt, from, to) {
			if latest == nil || r.RecordedAt.After(latest.RecordedAt) {
				cp := r
				latest = &cp
			}
		}
	}
	return latest, nil
}

func (m *memRecords) CountInRange(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, r := range m.recs {
		if inWindow(r.RecordedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (m *memRecords) CountAll(context.Context) (int64, error) {
	return int64(len(m.recs)), nil
}

func (m *memRecords) CountByUser(_ context.Context, userID string) (int64, error) {
	return int64(len(m.matching(&userID))), nil
}

func (m *memRecords) CountOfTypeByUser(_ context.Context, userID string, typ entity.EventType, from, to time.Time) (int64, error) {
	var n int64
	for _, r := range m.recs {
		if r.UserID == userID && r.Type == typ && inWindow(r.RecordedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (m *memRecords) TodayCheckIns(_ context.Context, from, to time.Time) ([]entity.AttendanceRecord, error) {
	out := make([]entity.AttendanceRecord, 0)
	for _, r := range m.recs {
		if r.Type == entity.CheckIn && inWindow(r.RecordedAt, from, to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out, nil
}

var _ repo.AttendanceRepository = (*memRecords)(nil)

var errMemNotFound = errors.New("not found")

// memUsers is an in-memory UserRepository for service tests.
type memUsers struct {
	users map[string]entity.User
	seq   int
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]entity.User)}
}

func (m *memUsers) add(u entity.User) entity.User {
	if u.ID == "" {
		m.seq++
		u.ID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[u.ID] = u
	return u
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errMemNotFound
	}
	cp := u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, errMemNotFound
}

func (m *memUsers) List(_ context.Context, offset, limit int) ([]entity.User, int64, error) {
	all := make([]entity.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return errMemNotFound
	}
	u.UpdatedAt = time.Now()
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return errMemNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) CountByRole(_ context.Context, role entity.Role) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

var _ repo.UserRepository = (*memUsers)(nil)
