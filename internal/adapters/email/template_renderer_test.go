package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventrsvp/internal/domain"
)

func TestTemplateRenderer_Invitation(t *testing.T) {
	r := NewTemplateRenderer()
	data := &domain.InvitationEmailData{
		Email:           "a@x.com",
		Subject:         "Party at Ana's",
		Message:         "<p>Bring <b>snacks</b></p>",
		EventID:         "E1",
		EventTitle:      "Birthday",
		AttendingURL:    "https://rsvp.example.com/response/yes?eventId=E1&email=a%40x.com&token=t",
		NotAttendingURL: "https://rsvp.example.com/response/no?eventId=E1&email=a%40x.com&token=t",
	}

	subject, html, text, err := r.Render("invitation", data)
	require.NoError(t, err)

	assert.Equal(t, "Party at Ana's", subject)
	assert.Contains(t, html, "<p>Bring <b>snacks</b></p>")
	assert.Contains(t, html, "https://rsvp.example.com/response/yes?eventId=E1&amp;email=a%40x.com&amp;token=t")
	assert.Contains(t, html, "/response/no?")
	assert.Contains(t, text, data.AttendingURL)
	assert.Contains(t, text, data.NotAttendingURL)
}

func TestTemplateRenderer_DefaultSubject(t *testing.T) {
	subject, _, _, err := NewTemplateRenderer().Render("invitation", &domain.InvitationEmailData{EventTitle: "Picnic"})
	require.NoError(t, err)
	assert.Equal(t, "You're invited to Picnic", subject)
}

func TestTemplateRenderer_Verification(t *testing.T) {
	data := &domain.VerificationEmailData{
		Email:     "org@x.com",
		Name:      "<Ana>",
		VerifyURL: "https://rsvp.example.com/auth/verify-email?token=abc",
	}
	subject, html, text, err := NewTemplateRenderer().Render("verification", data)
	require.NoError(t, err)

	assert.Equal(t, "Confirm your email address", subject)
	assert.Contains(t, html, `href="https://rsvp.example.com/auth/verify-email?token=abc"`)
	assert.Contains(t, html, "Hi &lt;Ana&gt;", "user names are escaped")
	assert.Contains(t, text, data.VerifyURL)
	assert.Contains(t, text, "org@x.com")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	assert.Error(t, err)
}
