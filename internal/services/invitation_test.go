package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventrsvp/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type invitationFixture struct {
	events  *fakeEventRepo
	invs    *fakeInvitationRepo
	emails  *fakeEmailService
	service domain.InvitationService
}

func newInvitationFixture(concurrency int) *invitationFixture {
	f := &invitationFixture{
		events: newFakeEventRepo(&domain.Event{ID: "E1", Title: "Garden party", OwnerID: "owner-1"}),
		invs:   newFakeInvitationRepo(),
		emails: newFakeEmailService(),
	}
	f.service = NewInvitationService(f.events, f.invs, f.emails, fakeSigner{}, discardLogger(), InvitationSettings{
		BaseURL:        "https://rsvp.example.com",
		Concurrency:    concurrency,
		SendTimeout:    time.Second,
		ContextTimeout: 5 * time.Second,
	})
	return f
}

func validInput(recipients ...domain.Recipient) domain.SendInvitationsInput {
	return domain.SendInvitationsInput{
		EventID:    "E1",
		Subject:    "You're invited",
		Message:    "<p>Join us</p>",
		Recipients: recipients,
	}
}

func TestInvitationService_SendInvitations_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input domain.SendInvitationsInput
	}{
		{name: "no recipients", input: validInput()},
		{name: "missing subject", input: func() domain.SendInvitationsInput {
			in := validInput(domain.Recipient{Email: "a@x.com"})
			in.Subject = "  "
			return in
		}()},
		{name: "missing message", input: func() domain.SendInvitationsInput {
			in := validInput(domain.Recipient{Email: "a@x.com"})
			in.Message = ""
			return in
		}()},
		{name: "missing event", input: func() domain.SendInvitationsInput {
			in := validInput(domain.Recipient{Email: "a@x.com"})
			in.EventID = ""
			return in
		}()},
		{name: "one malformed email rejects the batch", input: validInput(
			domain.Recipient{Email: "a@x.com"},
			domain.Recipient{Email: "not-an-email"},
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvitationFixture(4)
			res, err := f.service.SendInvitations(context.Background(), "owner-1", tt.input)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, res)
			assert.Empty(t, f.emails.sentTo(), "no email may be sent")
			assert.Zero(t, f.invs.writes, "no record may be written")
		})
	}
}

func TestInvitationService_SendInvitations_Ownership(t *testing.T) {
	f := newInvitationFixture(4)

	_, err := f.service.SendInvitations(context.Background(), "someone-else", validInput(domain.Recipient{Email: "a@x.com"}))
	require.ErrorIs(t, err, domain.ErrForbidden)

	in := validInput(domain.Recipient{Email: "a@x.com"})
	in.EventID = "missing"
	_, err = f.service.SendInvitations(context.Background(), "owner-1", in)
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, f.emails.sentTo())
	assert.Zero(t, f.invs.writes)
}

func TestInvitationService_SendInvitations_PartialFailure(t *testing.T) {
	f := newInvitationFixture(4)
	f.emails.failFor["b@x.com"] = errors.New("mailbox unavailable")

	res, err := f.service.SendInvitations(context.Background(), "owner-1", validInput(
		domain.Recipient{Email: "A@x.com", GuestID: "G1"},
		domain.Recipient{Email: "b@x.com", GuestID: "G2"},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Results, 2)

	first, second := res.Results[0], res.Results[1]
	assert.Equal(t, "a@x.com", first.Email)
	assert.Equal(t, domain.DeliverySent, first.Status)
	require.NotNil(t, first.Invitation)
	assert.Equal(t, domain.RSVPPending, first.Invitation.RSVPResponse)

	assert.Equal(t, "b@x.com", second.Email)
	assert.Equal(t, domain.DeliveryFailed, second.Status)
	assert.Contains(t, second.Error, "mailbox unavailable")
	assert.Nil(t, second.Invitation)

	_, err = f.invs.FindOne(context.Background(), domain.NewInvitationKey("E1", "a@x.com", "G1"))
	require.NoError(t, err)
	_, err = f.invs.FindOne(context.Background(), domain.NewInvitationKey("E1", "b@x.com", "G2"))
	require.ErrorIs(t, err, domain.ErrNotFound, "failed send must not create a record")
}

func TestInvitationService_SendInvitations_Links(t *testing.T) {
	f := newInvitationFixture(1)

	_, err := f.service.SendInvitations(context.Background(), "owner-1", validInput(
		domain.Recipient{Email: "a@x.com", GuestID: "G1"},
		domain.Recipient{Email: "c@x.com"},
	))
	require.NoError(t, err)
	require.Len(t, f.emails.sent, 2)

	withGuest := f.emails.sent[0]
	assert.Equal(t, "Garden party", withGuest.EventTitle)
	assert.Equal(t, "<p>Join us</p>", withGuest.Message)
	yes, err := url.Parse(withGuest.AttendingURL)
	require.NoError(t, err)
	assert.Equal(t, "/response/yes", yes.Path)
	assert.Equal(t, "rsvp.example.com", yes.Host)
	assert.Equal(t, "E1", yes.Query().Get("eventId"))
	assert.Equal(t, "a@x.com", yes.Query().Get("email"))
	assert.Equal(t, "G1", yes.Query().Get("guestId"))
	assert.Equal(t, "tok|E1|a@x.com|G1", yes.Query().Get("token"))
	assert.True(t, strings.HasPrefix(withGuest.NotAttendingURL, "https://rsvp.example.com/response/no?"))

	noGuest, err := url.Parse(f.emails.sent[1].AttendingURL)
	require.NoError(t, err)
	assert.False(t, noGuest.Query().Has("guestId"))
}

func TestInvitationService_SendInvitations_ResendKeepsResponse(t *testing.T) {
	f := newInvitationFixture(2)
	key := domain.NewInvitationKey("E1", "a@x.com", "G1")
	_, err := f.invs.Upsert(context.Background(), key, domain.RSVPAttending, time.Now())
	require.NoError(t, err)

	res, err := f.service.SendInvitations(context.Background(), "owner-1", validInput(
		domain.Recipient{Email: "a@x.com", GuestID: "G1"},
		domain.Recipient{Email: "a@x.com", GuestID: "G1"},
	))
	require.NoError(t, err)
	require.Len(t, res.Results, 1, "duplicate recipients collapse")
	assert.Equal(t, domain.RSVPAttending, res.Results[0].Invitation.RSVPResponse)

	inv, err := f.invs.FindOne(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, domain.RSVPAttending, inv.RSVPResponse)
	assert.NotNil(t, inv.SentAt)
}

func TestInvitationService_SendInvitations_StoreFailureAfterSend(t *testing.T) {
	f := newInvitationFixture(4)
	f.invs.createErr["a@x.com"] = errors.New("db down")

	res, err := f.service.SendInvitations(context.Background(), "owner-1", validInput(domain.Recipient{Email: "a@x.com"}))
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, domain.DeliverySent, res.Results[0].Status)
	assert.Contains(t, res.Results[0].Error, "db down")
	assert.Nil(t, res.Results[0].Invitation)
}

func TestInvitationService_SendInvitations_ManyRecipients(t *testing.T) {
	f := newInvitationFixture(3)
	var recipients []domain.Recipient
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		recipients = append(recipients, domain.Recipient{Email: name + "@x.com"})
	}

	res, err := f.service.SendInvitations(context.Background(), "owner-1", validInput(recipients...))
	require.NoError(t, err)
	assert.Equal(t, 7, res.Sent)
	for i, r := range res.Results {
		assert.Equal(t, recipients[i].Email, r.Email, "results keep request order")
	}
	list, err := f.invs.ListByEventID(context.Background(), "E1")
	require.NoError(t, err)
	assert.Len(t, list, 7)
}
