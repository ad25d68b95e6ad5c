package repository

import (
	"context"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/pkg/apperror"
)

// Errors every UserRepository implementation reports, wrapped or as-is.
var (
	ErrUserNotFound = apperror.NotFound("user not found")
	ErrEmailTaken   = apperror.Conflict("user already registered")
	ErrUnavailable  = apperror.New(apperror.KindUnexpected, "database unavailable")
)

// UserRepository defines the interface for user-related database operations.
// Returned users carry the password hash only from GetByEmail.
type UserRepository interface {
	// Create stores u and fills in ID and timestamps.
	Create(ctx context.Context, u *entity.User) error
	List(ctx context.Context) ([]entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)
	ToggleBusiness(ctx context.Context, id string) (*entity.User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) (*entity.User, error)
	Delete(ctx context.Context, id string) (*entity.User, error)
}
