package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satriohq/blognest-api/internal/domain/entity"
	"github.com/satriohq/blognest-api/internal/domain/repository"
)

const userColumns = `
	id, first_name, last_name, email, password_hash, bio, avatar_url, role,
	post_count, is_blocked, is_admin, is_account_verified, active,
	following, viewed_by,
	password_changed_at, password_reset_token, password_reset_expires,
	verification_token, verification_expires,
	created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, avatar_url, role, password_changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.FirstName, u.LastName, u.Email, u.Password, u.AvatarURL, u.Role, u.PasswordChangedAt)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByPasswordResetToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	return r.getOne(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE password_reset_token = $1 AND password_reset_expires > now()
	`, tokenHash)
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	return r.getOne(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE verification_token = $1 AND verification_expires > now()
	`, tokenHash)
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, query, args...)
	var resetToken, verifyToken *string
	if err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Bio, &u.AvatarURL, &u.Role,
		&u.PostCount, &u.IsBlocked, &u.IsAdmin, &u.IsAccountVerified, &u.Active,
		&u.Following, &u.ViewedBy,
		&u.PasswordChangedAt, &resetToken, &u.PasswordResetExpires,
		&verifyToken, &u.VerificationExpires,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if resetToken != nil {
		u.PasswordResetToken = *resetToken
	}
	if verifyToken != nil {
		u.VerificationToken = *verifyToken
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, bio = $3, avatar_url = $4, updated_at = $5
		WHERE id = $6
	`, u.FirstName, u.LastName, u.Bio, u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, password_changed_at = $2,
		    password_reset_token = NULL, password_reset_expires = NULL,
		    updated_at = now()
		WHERE id = $3
	`, hash, changedAt, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetPasswordResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET password_reset_token = $1, password_reset_expires = $2, updated_at = now()
		WHERE id = $3
	`, tokenHash, expires, id)
}

func (r *UserRepository) ClearPasswordResetToken(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires = NULL, updated_at = now()
		WHERE id = $1
	`, id)
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET verification_token = $1, verification_expires = $2, updated_at = now()
		WHERE id = $3
	`, tokenHash, expires, id)
}

func (r *UserRepository) ClearVerificationToken(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE users
		SET verification_token = NULL, verification_expires = NULL, updated_at = now()
		WHERE id = $1
	`, id)
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE users
		SET is_account_verified = true,
		    verification_token = NULL, verification_expires = NULL,
		    updated_at = now()
		WHERE id = $1
	`, id)
}

func (r *UserRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	return r.exec(ctx, `
		UPDATE users SET is_blocked = $1, updated_at = now() WHERE id = $2
	`, blocked, id)
}

func (r *UserRepository) SetRole(ctx context.Context, id string, role entity.Role) error {
	return r.exec(ctx, `
		UPDATE users SET role = $1, is_admin = ($1 = 'Admin'), updated_at = now() WHERE id = $2
	`, role, id)
}

func (r *UserRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
