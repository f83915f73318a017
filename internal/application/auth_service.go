package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/satriohq/blognest-api/internal/domain/entity"
	"github.com/satriohq/blognest-api/internal/domain/repository"
	"github.com/satriohq/blognest-api/pkg/apperror"
	"github.com/satriohq/blognest-api/pkg/helpers"
)

const (
	passwordResetTTL = 10 * time.Minute
	verificationTTL  = 24 * time.Hour

	// Hashes minted in the same instant as a login token must not mark the
	// token stale, so the change timestamp is backdated slightly.
	passwordChangedSkew = 2 * time.Second
)

// Mailer delivers account emails. Delivery is fallible and asynchronous;
// the reset flow treats a failed handoff as a failed delivery.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, firstName, resetURL string, expiresIn string) error
	SendWelcome(ctx context.Context, to, firstName, verifyURL string) error
}

// AuthService orchestrates signup, login, token verification, and the
// reset/verification token lifecycle on top of the user repository.
type AuthService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Mail   Mailer
	Logger *logrus.Logger

	// Front-end URLs the plain tokens are appended to.
	ResetURLBase  string
	VerifyURLBase string

	// Optional collaborators; nil disables the feature.
	GCS            *storage.Client
	GCSBucket      string
	ES             *elasticsearch.Client
	ESAuthorsIndex string
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, mail Mailer, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Mail: mail, Logger: logger}
}

// SignupInput is the whitelist of fields a caller may set on a new account.
// Admin status and the various flags are not assignable here.
type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	PasswordConfirm string
	Role            string
}

// Signup creates a new account with a hashed password and returns it with
// credential fields stripped. It does not issue a token; the client logs in
// explicitly afterwards.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	if in.Password != in.PasswordConfirm {
		return nil, apperror.Validation("passwords do not match")
	}

	role := entity.RoleGuest
	if in.Role != "" {
		role = entity.Role(in.Role)
		// Admin is never self-assignable.
		if !role.Valid() || role == entity.RoleAdmin {
			return nil, apperror.Validation("invalid role")
		}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	changedAt := time.Now().Add(-passwordChangedSkew)
	u := &entity.User{
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		Email:             NormalizeEmail(in.Email),
		Password:          hash,
		AvatarURL:         entity.DefaultAvatarURL,
		Role:              role,
		Active:            true,
		PasswordChangedAt: &changedAt,
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Validation("email already in use")
		}
		return nil, err
	}

	// Welcome email with a verification link is best-effort; signup has
	// already succeeded.
	if err := s.issueVerification(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email failed")
	}

	s.indexAuthor(ctx, u)
	return u.Sanitize(), nil
}

// Login verifies credentials and mints a bearer token. Unknown email and
// wrong password produce the identical error; the block check runs only
// after the password verified.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperror.MissingCredentials()
	}

	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, apperror.InvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, apperror.InvalidCredentials()
	}
	if u.IsBlocked {
		return nil, "", time.Time{}, apperror.AccountBlocked()
	}

	token, exp, err := s.JWT.Sign(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("token signing failed")
		return nil, "", time.Time{}, err
	}
	return u.Sanitize(), token, exp, nil
}

// Authenticate backs the Protect middleware: it verifies the token, checks
// the account still exists, and rejects tokens issued before the most recent
// password change.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid or expired token, please log in again")
	}

	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthenticated("the user belonging to this token no longer exists")
		}
		return nil, err
	}

	if claims.IssuedAt != nil && u.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, apperror.Unauthenticated("password was recently changed, please log in again")
	}

	return u.Sanitize(), nil
}

// ForgotPassword generates a single-use reset token, persists its digest,
// and emails the plain value. A failed delivery rolls the token fields back
// before the error surfaces.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("there is no user with that email address")
		}
		return err
	}

	plain, hashed, err := helpers.NewSecureToken()
	if err != nil {
		return err
	}
	if err := s.Repo.SetPasswordResetToken(ctx, u.ID, hashed, time.Now().Add(passwordResetTTL)); err != nil {
		return err
	}

	resetURL := s.ResetURLBase + "/" + plain
	if err := s.Mail.SendPasswordReset(ctx, u.Email, u.FirstName, resetURL, "10 minutes"); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("password reset email failed")
		if rbErr := s.Repo.ClearPasswordResetToken(ctx, u.ID); rbErr != nil {
			s.Logger.WithError(rbErr).WithField("user_id", u.ID).Error("reset token rollback failed")
		}
		return apperror.EmailDelivery()
	}
	return nil
}

// ResetPassword consumes a presented plain token: it is re-hashed, matched
// against the stored digest, and cleared together with the password rotation
// so it can never be used twice.
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, password, passwordConfirm string) (*entity.User, error) {
	if password != passwordConfirm {
		return nil, apperror.Validation("passwords do not match")
	}

	u, err := s.Repo.GetByPasswordResetToken(ctx, helpers.HashToken(plainToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Validation("token is invalid or has expired")
		}
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash, time.Now().Add(-passwordChangedSkew)); err != nil {
		return nil, err
	}
	return u.Sanitize(), nil
}

// RequestVerification issues a fresh account-verification token for an
// authenticated user and emails the link.
func (s *AuthService) RequestVerification(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}
	if u.IsAccountVerified {
		return apperror.Validation("account is already verified")
	}
	if err := s.issueVerification(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("verification email failed")
		if rbErr := s.Repo.ClearVerificationToken(ctx, u.ID); rbErr != nil {
			s.Logger.WithError(rbErr).WithField("user_id", u.ID).Error("verification token rollback failed")
		}
		return apperror.EmailDelivery()
	}
	return nil
}

// VerifyAccount consumes a presented verification token and flips the
// account to verified.
func (s *AuthService) VerifyAccount(ctx context.Context, plainToken string) (*entity.User, error) {
	u, err := s.Repo.GetByVerificationToken(ctx, helpers.HashToken(plainToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Validation("token is invalid or has expired")
		}
		return nil, err
	}
	if err := s.Repo.MarkVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	u.IsAccountVerified = true
	return u.Sanitize(), nil
}

func (s *AuthService) issueVerification(ctx context.Context, u *entity.User) error {
	plain, hashed, err := helpers.NewSecureToken()
	if err != nil {
		return err
	}
	if err := s.Repo.SetVerificationToken(ctx, u.ID, hashed, time.Now().Add(verificationTTL)); err != nil {
		return err
	}
	return s.Mail.SendWelcome(ctx, u.Email, u.FirstName, s.VerifyURLBase+"/"+plain)
}

// NormalizeEmail lowercases and trims an address; emails are unique in their
// normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
