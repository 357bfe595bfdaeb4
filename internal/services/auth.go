package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

const minPasswordLen = 8

// AuthSettings tunes organizer accounts and sessions.
type AuthSettings struct {
	JWTExpiry      time.Duration
	ContextTimeout time.Duration
	// BaseURL is the public origin verification links point at, without a trailing slash.
	BaseURL string
	// RequireVerifiedEmail refuses logins until the address has been confirmed.
	RequireVerifiedEmail bool
}

type authService struct {
	userRepo     domain.UserRepository
	hasher       domain.PasswordHasher
	issuer       domain.TokenIssuer
	linkSigner   domain.VerificationLinkSigner
	emailService domain.EmailService
	logger       *slog.Logger
	settings     AuthSettings
	now          func() time.Time
}

// NewAuthService creates an AuthService. Verification emails go out through emailService
// with links signed by linkSigner.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	linkSigner domain.VerificationLinkSigner,
	emailService domain.EmailService,
	logger *slog.Logger,
	settings AuthSettings,
) domain.AuthService {
	return &authService{
		userRepo:     userRepo,
		hasher:       hasher,
		issuer:       issuer,
		linkSigner:   linkSigner,
		emailService: emailService,
		logger:       logger,
		settings:     settings,
		now:          time.Now,
	}
}

// SignUp creates an unverified organizer and mails a verification link. A failed
// verification email does not undo the signup; the link can be requested again.
func (s *authService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.ContextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Name:         strings.TrimSpace(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "verification email not sent", "user_id", user.ID, "err", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.ContextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if s.settings.RequireVerifiedEmail && !user.Verified {
		return "", domain.ErrEmailNotVerified
	}
	return s.issuer.Issue(user.ID, user.Email, s.settings.JWTExpiry)
}

// SendVerificationEmail mails a fresh verification link to an unverified organizer.
func (s *authService) SendVerificationEmail(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.settings.ContextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if user.Verified {
		return domain.ErrAlreadyVerified
	}
	return s.sendVerification(ctx, user)
}

// VerifyEmail checks a verification token and marks its user verified. Following a
// link again after success returns the user unchanged.
func (s *authService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.ContextTimeout)
	defer cancel()

	userID, email, err := s.linkSigner.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", domain.ErrInvalidLink)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.Email != email {
		return nil, fmt.Errorf("%w: link was issued for another address", domain.ErrInvalidLink)
	}
	if user.Verified {
		return user, nil
	}
	at := s.now()
	if err := s.userRepo.MarkVerified(ctx, user.ID, at); err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	user.Verified = true
	user.VerifiedAt = &at
	s.logger.InfoContext(ctx, "email verified", "user_id", user.ID)
	return user, nil
}

func (s *authService) sendVerification(ctx context.Context, user *domain.User) error {
	token, err := s.linkSigner.Sign(user.ID, user.Email)
	if err != nil {
		return err
	}
	return s.emailService.SendVerification(ctx, &domain.VerificationEmailData{
		Email:     user.Email,
		Name:      user.Name,
		VerifyURL: s.settings.BaseURL + "/auth/verify-email?token=" + url.QueryEscape(token),
	})
}
