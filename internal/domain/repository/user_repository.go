package repository

import (
	"context"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List returns one page of users, newest first, plus the total count.
	List(ctx context.Context, offset, limit int) ([]entity.User, int64, error)
	Update(ctx context.Context, u *entity.User) error
	// Delete removes the user; their attendance records go with them via
	// ON DELETE CASCADE on attendance_records.user_id.
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
