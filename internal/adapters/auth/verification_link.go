package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

const verificationAudience = "eventrsvp:email-verification"

type verificationClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type verificationLinkSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewVerificationLinkSigner returns a VerificationLinkSigner producing HS256 tokens
// that bind a user id to the address being confirmed. Tokens expire after ttl.
func NewVerificationLinkSigner(secret string, ttl time.Duration) domain.VerificationLinkSigner {
	return &verificationLinkSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *verificationLinkSigner) Sign(userID, email string) (string, error) {
	now := s.now()
	claims := verificationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Audience:  jwt.ClaimStrings{verificationAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign verification link: %w", err)
	}
	return signed, nil
}

func (s *verificationLinkSigner) Verify(token string) (string, string, error) {
	if token == "" {
		return "", "", fmt.Errorf("%w: missing token", domain.ErrInvalidLink)
	}
	var claims verificationClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(verificationAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", fmt.Errorf("%w: link expired", domain.ErrInvalidLink)
		}
		return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidLink, err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return "", "", fmt.Errorf("%w: incomplete verification token", domain.ErrInvalidLink)
	}
	return claims.Subject, claims.Email, nil
}
