package domain

import "context"

// EmailMessage is a single outbound email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InvitationEmailData holds data for the RSVP invitation email.
type InvitationEmailData struct {
	Email           string
	Subject         string
	Message         string // HTML fragment written by the organizer
	EventID         string
	EventTitle      string
	AttendingURL    string
	NotAttendingURL string
}

// VerificationEmailData holds data for the email address confirmation email.
type VerificationEmailData struct {
	Email     string
	Name      string
	VerifyURL string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
	SendVerification(ctx context.Context, data *VerificationEmailData) error
}
