package entity

import (
	"time"
)

// DefaultAvatarURL is assigned to new accounts until they upload an image.
const DefaultAvatarURL = "https://storage.googleapis.com/blognest-public/avatars/default.png"

// User is the aggregate root for the auth domain. Password holds the bcrypt
// hash and is excluded from every outward-facing representation; the reset
// and verification token fields hold SHA-256 digests, never plain tokens.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url"`
	Role      Role   `json:"role"`

	PostCount         int  `json:"post_count"`
	IsBlocked         bool `json:"is_blocked"`
	IsAdmin           bool `json:"is_admin"`
	IsAccountVerified bool `json:"is_account_verified"`
	Active            bool `json:"active"`

	Following []string `json:"following,omitempty"`
	ViewedBy  []string `json:"viewed_by,omitempty"`

	PasswordChangedAt    *time.Time `json:"-"`
	PasswordResetToken   string     `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	VerificationToken    string     `json:"-"`
	VerificationExpires  *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sanitize clears the credential fields before the user leaves the service
// boundary.
func (u *User) Sanitize() *User {
	u.Password = ""
	u.PasswordResetToken = ""
	u.VerificationToken = ""
	return u
}

// ChangedPasswordAfter reports whether the password was rotated after a token
// was issued. Tokens minted before the most recent change are stale.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	// JWT iat has second precision; truncate to match.
	return u.PasswordChangedAt.Truncate(time.Second).After(issuedAt.Truncate(time.Second))
}

// FullName joins the name parts for display use.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
