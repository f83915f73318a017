package repository

import (
	"context"
	"errors"
	"time"

	"github.com/satriohq/blognest-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the unique email constraint fires.
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserRepository defines the persistence operations the auth flows need.
// Lookups return the stored password hash; stripping it is the service's
// job. The targeted setters update only the named columns, the equivalent
// of a partial save that skips full-document validation.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error

	// UpdatePassword rotates the hash and stamps password_changed_at.
	UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error

	SetPasswordResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	ClearPasswordResetToken(ctx context.Context, id string) error
	// GetByPasswordResetToken matches an unexpired stored token digest.
	GetByPasswordResetToken(ctx context.Context, tokenHash string) (*entity.User, error)

	SetVerificationToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	ClearVerificationToken(ctx context.Context, id string) error
	GetByVerificationToken(ctx context.Context, tokenHash string) (*entity.User, error)
	MarkVerified(ctx context.Context, id string) error

	SetBlocked(ctx context.Context, id string, blocked bool) error
	SetRole(ctx context.Context, id string, role entity.Role) error
}
