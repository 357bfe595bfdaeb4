package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

const responseLinkAudience = "eventrsvp:response-link"

type responseLinkClaims struct {
	jwt.RegisteredClaims
	EventID string `json:"eid"`
	GuestID string `json:"gid,omitempty"`
}

type responseLinkSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewResponseLinkSigner returns a ResponseLinkSigner producing HS256 tokens that bind
// an event id, recipient email and guest id. Tokens expire after ttl.
func NewResponseLinkSigner(secret string, ttl time.Duration) domain.ResponseLinkSigner {
	return &responseLinkSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *responseLinkSigner) Sign(key domain.InvitationKey) (string, error) {
	now := s.now()
	claims := responseLinkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   key.Email,
			Audience:  jwt.ClaimStrings{responseLinkAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		EventID: key.EventID,
		GuestID: key.GuestID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign response link: %w", err)
	}
	return signed, nil
}

func (s *responseLinkSigner) Verify(token string, key domain.InvitationKey) error {
	if token == "" {
		return fmt.Errorf("%w: missing token", domain.ErrInvalidLink)
	}
	var claims responseLinkClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(responseLinkAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: link expired", domain.ErrInvalidLink)
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidLink, err)
	}
	if claims.EventID != key.EventID || claims.Subject != key.Email || claims.GuestID != key.GuestID {
		return fmt.Errorf("%w: link does not match invitation", domain.ErrInvalidLink)
	}
	return nil
}
