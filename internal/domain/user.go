package domain

import (
	"context"
	"time"
)

// User is an organizer account.
// swagger:model User
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	Verified     bool       `json:"verified"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Session is what an organizer token asserts about its holder.
// swagger:model Session
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the session it carries.
type TokenVerifier interface {
	Verify(token string) (*Session, error)
}

// VerificationLinkSigner signs and checks the token in email verification links.
type VerificationLinkSigner interface {
	Sign(userID, email string) (string, error)
	// Verify returns ErrInvalidLink when the token is malformed, expired, or not a verification token.
	Verify(token string) (userID, email string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// MarkVerified sets the verified flag; ErrNotFound when no such user exists.
	MarkVerified(ctx context.Context, id string, at time.Time) error
}

// AuthService signs organizers up, confirms their email address and logs them in.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
	SendVerificationEmail(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) (*User, error)
}
