// Package memory provides a map-backed UserRepository for tests and local
// development without Postgres.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/satriohq/blognest-api/internal/domain/entity"
	"github.com/satriohq/blognest-api/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	seq   int
	users map[string]*entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entity.User)}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.seq++
	u.ID = "user-" + strconv.Itoa(r.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.FirstName = u.FirstName
	stored.LastName = u.LastName
	stored.Bio = u.Bio
	stored.AvatarURL = u.AvatarURL
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string, changedAt time.Time) error {
	return r.mutate(id, func(u *entity.User) {
		u.Password = hash
		u.PasswordChangedAt = &changedAt
		u.PasswordResetToken = ""
		u.PasswordResetExpires = nil
	})
}

func (r *UserRepository) SetPasswordResetToken(_ context.Context, id, tokenHash string, expires time.Time) error {
	return r.mutate(id, func(u *entity.User) {
		u.PasswordResetToken = tokenHash
		u.PasswordResetExpires = &expires
	})
}

func (r *UserRepository) ClearPasswordResetToken(_ context.Context, id string) error {
	return r.mutate(id, func(u *entity.User) {
		u.PasswordResetToken = ""
		u.PasswordResetExpires = nil
	})
}

func (r *UserRepository) GetByPasswordResetToken(_ context.Context, tokenHash string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.PasswordResetToken == tokenHash &&
			u.PasswordResetExpires != nil && u.PasswordResetExpires.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) SetVerificationToken(_ context.Context, id, tokenHash string, expires time.Time) error {
	return r.mutate(id, func(u *entity.User) {
		u.VerificationToken = tokenHash
		u.VerificationExpires = &expires
	})
}

func (r *UserRepository) ClearVerificationToken(_ context.Context, id string) error {
	return r.mutate(id, func(u *entity.User) {
		u.VerificationToken = ""
		u.VerificationExpires = nil
	})
}

func (r *UserRepository) GetByVerificationToken(_ context.Context, tokenHash string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.VerificationToken == tokenHash &&
			u.VerificationExpires != nil && u.VerificationExpires.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) MarkVerified(_ context.Context, id string) error {
	return r.mutate(id, func(u *entity.User) {
		u.IsAccountVerified = true
		u.VerificationToken = ""
		u.VerificationExpires = nil
	})
}

func (r *UserRepository) SetBlocked(_ context.Context, id string, blocked bool) error {
	return r.mutate(id, func(u *entity.User) { u.IsBlocked = blocked })
}

func (r *UserRepository) SetRole(_ context.Context, id string, role entity.Role) error {
	return r.mutate(id, func(u *entity.User) {
		u.Role = role
		u.IsAdmin = role == entity.RoleAdmin
	})
}

func (r *UserRepository) mutate(id string, fn func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
