package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RSVPResponse is a recipient's attendance answer for an event.
type RSVPResponse string

const (
	RSVPPending      RSVPResponse = "pending"
	RSVPAttending    RSVPResponse = "attending"
	RSVPNotAttending RSVPResponse = "not attending"
)

// Valid reports whether r is one of the known responses.
func (r RSVPResponse) Valid() bool {
	switch r {
	case RSVPPending, RSVPAttending, RSVPNotAttending:
		return true
	}
	return false
}

// ParseRSVPResponse normalizes user input into an RSVPResponse.
// "not_attending" and "not-attending" are accepted as aliases of "not attending".
func ParseRSVPResponse(s string) (RSVPResponse, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("_", " ", "-", " ").Replace(v)
	r := RSVPResponse(v)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown rsvp response %q", ErrInvalidInput, s)
	}
	return r, nil
}

// InvitationKey is the natural key of an invitation. GuestID is empty when the
// invitation is tracked by email only.
type InvitationKey struct {
	EventID string
	Email   string
	GuestID string
}

// NewInvitationKey trims every part and lower-cases the email so the same
// recipient always maps to the same key.
func NewInvitationKey(eventID, email, guestID string) InvitationKey {
	return InvitationKey{
		EventID: strings.TrimSpace(eventID),
		Email:   strings.ToLower(strings.TrimSpace(email)),
		GuestID: strings.TrimSpace(guestID),
	}
}

// Validate checks the required parts of the key.
func (k InvitationKey) Validate() error {
	if k.EventID == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if k.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return nil
}

// Invitation tracks one recipient's RSVP status for one event.
// swagger:model Invitation
type Invitation struct {
	ID             string       `json:"id"`
	EventID        string       `json:"event_id"`
	RecipientEmail string       `json:"recipient_email"`
	InvitedGuest   string       `json:"invited_guest,omitempty"`
	RSVPResponse   RSVPResponse `json:"rsvp_response"`
	SentAt         *time.Time   `json:"sent_at,omitempty"`
	RespondedAt    *time.Time   `json:"responded_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewPendingInvitation returns an invitation for key in the pending state, stamped as sent at sentAt.
func NewPendingInvitation(key InvitationKey, sentAt time.Time) *Invitation {
	return &Invitation{
		EventID:        key.EventID,
		RecipientEmail: key.Email,
		InvitedGuest:   key.GuestID,
		RSVPResponse:   RSVPPending,
		SentAt:         &sentAt,
		CreatedAt:      sentAt,
		UpdatedAt:      sentAt,
	}
}

// Key returns the natural key of the invitation.
func (i *Invitation) Key() InvitationKey {
	return InvitationKey{EventID: i.EventID, Email: i.RecipientEmail, GuestID: i.InvitedGuest}
}

// InvitationRepository defines storage operations for invitations.
// At most one invitation exists per InvitationKey.
type InvitationRepository interface {
	// Create stores inv as a new record. When a record with the same key exists its
	// response is kept, only sent_at is refreshed, and inv is filled from the stored row.
	Create(ctx context.Context, inv *Invitation) error
	FindOne(ctx context.Context, key InvitationKey) (*Invitation, error)
	// Upsert sets the response for key, creating the record if needed. No other field changes.
	Upsert(ctx context.Context, key InvitationKey, response RSVPResponse, at time.Time) (*Invitation, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Invitation, error)
}

// Recipient is one addressee of an invitation batch.
type Recipient struct {
	Email   string `json:"email"`
	GuestID string `json:"guest_id"`
}

// SendInvitationsInput is a batch of invitations for one event.
type SendInvitationsInput struct {
	EventID    string
	Subject    string
	Message    string
	Recipients []Recipient
}

// DeliveryStatus is the outcome of sending to one recipient.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// RecipientResult reports what happened to one recipient of a batch.
// swagger:model RecipientResult
type RecipientResult struct {
	Email      string         `json:"email"`
	GuestID    string         `json:"guest_id,omitempty"`
	Status     DeliveryStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
	Invitation *Invitation    `json:"invitation,omitempty"`
}

// SendInvitationsResult aggregates a batch. Results are in request order.
type SendInvitationsResult struct {
	Sent    int               `json:"sent"`
	Failed  int               `json:"failed"`
	Results []RecipientResult `json:"results"`
}

// ResponseLinkParams are the identifying parameters carried by an emailed response link.
type ResponseLinkParams struct {
	EventID string
	Email   string
	GuestID string
	Token   string
}

// ResponseLinkSigner signs and verifies the token embedded in response links.
type ResponseLinkSigner interface {
	Sign(key InvitationKey) (string, error)
	// Verify returns ErrInvalidLink when the token is malformed, expired, or issued for another key.
	Verify(token string, key InvitationKey) error
}

// GuestResponseSummary counts invitations of an event per response.
type GuestResponseSummary struct {
	Total        int `json:"total"`
	Attending    int `json:"attending"`
	NotAttending int `json:"not_attending"`
	Pending      int `json:"pending"`
}

// GuestResponses is the per-guest RSVP report of an event.
type GuestResponses struct {
	EventID     string               `json:"event_id"`
	Summary     GuestResponseSummary `json:"summary"`
	Invitations []*Invitation        `json:"invitations"`
}

// Summarize counts the responses in invs.
func Summarize(invs []*Invitation) GuestResponseSummary {
	s := GuestResponseSummary{Total: len(invs)}
	for _, inv := range invs {
		switch inv.RSVPResponse {
		case RSVPAttending:
			s.Attending++
		case RSVPNotAttending:
			s.NotAttending++
		default:
			s.Pending++
		}
	}
	return s
}

// InvitationService sends invitation batches.
type InvitationService interface {
	SendInvitations(ctx context.Context, callerID string, in SendInvitationsInput) (*SendInvitationsResult, error)
}

// RSVPService records responses and reports them.
type RSVPService interface {
	// RecordLinkResponse verifies the link token and upserts the response.
	RecordLinkResponse(ctx context.Context, params ResponseLinkParams, response RSVPResponse) (*Invitation, error)
	// SubmitRSVP lets the event owner set a response explicitly.
	SubmitRSVP(ctx context.Context, eventID, callerID, email, guestID string, response RSVPResponse) (*Invitation, error)
	ListGuestResponses(ctx context.Context, eventID, callerID string) (*GuestResponses, error)
}
