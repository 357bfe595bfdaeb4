package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// decodeEnvelope decodes the JSON envelope and unmarshals data into dest when dest is non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.Nil(t, envelope.Error, "success response must have error nil")
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

type fakeEventService struct {
	err          error
	event        *domain.Event
	events       []*domain.Event
	total        int
	lastCreate   *domain.Event
	lastEventID  string
	lastCallerID string
	lastParams   domain.PaginationParams
	lastUpdate   domain.EventUpdate
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.lastCreate = event
	if f.err != nil {
		return f.err
	}
	event.ID = "ev-created"
	return nil
}

func (f *fakeEventService) GetEvent(_ context.Context, eventID, callerID string) (*domain.Event, error) {
	f.lastEventID, f.lastCallerID = eventID, callerID
	return f.event, f.err
}

func (f *fakeEventService) ListEvents(_ context.Context, ownerID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastCallerID, f.lastParams = ownerID, params
	return f.events, f.total, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, eventID, callerID string, update domain.EventUpdate) (*domain.Event, error) {
	f.lastEventID, f.lastCallerID, f.lastUpdate = eventID, callerID, update
	if f.err != nil {
		return nil, f.err
	}
	e := &domain.Event{ID: eventID, OwnerID: callerID}
	update.Apply(e)
	return e, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, eventID, callerID string) error {
	f.lastEventID, f.lastCallerID = eventID, callerID
	return f.err
}

type fakeGuestService struct {
	err          error
	guest        *domain.Guest
	guests       []*domain.Guest
	total        int
	lastCreate   *domain.Guest
	lastID       string
	lastCallerID string
	lastParams   domain.PaginationParams
	lastUpdate   domain.GuestUpdate
}

func (f *fakeGuestService) CreateGuest(_ context.Context, guest *domain.Guest) error {
	f.lastCreate = guest
	if f.err != nil {
		return f.err
	}
	guest.ID = "g-created"
	return nil
}

func (f *fakeGuestService) GetGuest(_ context.Context, guestID, callerID string) (*domain.Guest, error) {
	f.lastID, f.lastCallerID = guestID, callerID
	return f.guest, f.err
}

func (f *fakeGuestService) ListGuests(_ context.Context, callerID string, params domain.PaginationParams) ([]*domain.Guest, int, error) {
	f.lastCallerID, f.lastParams = callerID, params
	return f.guests, f.total, f.err
}

func (f *fakeGuestService) ListEventGuests(_ context.Context, eventID, callerID string) ([]*domain.Guest, error) {
	f.lastID, f.lastCallerID = eventID, callerID
	return f.guests, f.err
}

func (f *fakeGuestService) UpdateGuest(_ context.Context, guestID, callerID string, update domain.GuestUpdate) (*domain.Guest, error) {
	f.lastID, f.lastCallerID, f.lastUpdate = guestID, callerID, update
	if f.err != nil {
		return nil, f.err
	}
	g := &domain.Guest{ID: guestID, OwnerID: callerID}
	update.Apply(g)
	return g, nil
}

func (f *fakeGuestService) DeleteGuest(_ context.Context, guestID, callerID string) error {
	f.lastID, f.lastCallerID = guestID, callerID
	return f.err
}

type fakeInvitationService struct {
	err          error
	result       *domain.SendInvitationsResult
	lastCallerID string
	lastInput    domain.SendInvitationsInput
	calls        int
}

func (f *fakeInvitationService) SendInvitations(_ context.Context, callerID string, in domain.SendInvitationsInput) (*domain.SendInvitationsResult, error) {
	f.calls++
	f.lastCallerID, f.lastInput = callerID, in
	return f.result, f.err
}

type fakeRSVPService struct {
	err          error
	invitation   *domain.Invitation
	responses    *domain.GuestResponses
	lastParams   domain.ResponseLinkParams
	lastResponse domain.RSVPResponse
	lastEventID  string
	lastCallerID string
	lastEmail    string
	lastGuestID  string
	linkCalls    int
	submitCalls  int
}

func (f *fakeRSVPService) RecordLinkResponse(_ context.Context, params domain.ResponseLinkParams, response domain.RSVPResponse) (*domain.Invitation, error) {
	f.linkCalls++
	f.lastParams, f.lastResponse = params, response
	return f.invitation, f.err
}

func (f *fakeRSVPService) SubmitRSVP(_ context.Context, eventID, callerID, email, guestID string, response domain.RSVPResponse) (*domain.Invitation, error) {
	f.submitCalls++
	f.lastEventID, f.lastCallerID, f.lastEmail, f.lastGuestID, f.lastResponse = eventID, callerID, email, guestID, response
	return f.invitation, f.err
}

func (f *fakeRSVPService) ListGuestResponses(_ context.Context, eventID, callerID string) (*domain.GuestResponses, error) {
	f.lastEventID, f.lastCallerID = eventID, callerID
	return f.responses, f.err
}

type fakeAuthService struct {
	signUpErr    error
	loginErr     error
	resendErr    error
	verifyErr    error
	token        string
	lastEmail    string
	lastPassword string
	lastName     string
	lastToken    string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail, f.lastPassword, f.lastName = email, password, name
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &domain.User{ID: "user-1", Email: email, Name: name, PasswordHash: "hash", Salt: "salt"}, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeAuthService) SendVerificationEmail(_ context.Context, email string) error {
	f.lastEmail = email
	return f.resendErr
}

func (f *fakeAuthService) VerifyEmail(_ context.Context, token string) (*domain.User, error) {
	f.lastToken = token
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &domain.User{ID: "user-1", Email: "org@x.com", Verified: true}, nil
}
