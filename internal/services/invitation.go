package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"eventrsvp/internal/domain"
)

// InvitationSettings tunes invitation dispatch.
type InvitationSettings struct {
	// BaseURL is the public origin response links point at, without a trailing slash.
	BaseURL        string
	Concurrency    int
	SendTimeout    time.Duration
	ContextTimeout time.Duration
}

type invitationService struct {
	eventRepo      domain.EventRepository
	invitationRepo domain.InvitationRepository
	emailService   domain.EmailService
	signer         domain.ResponseLinkSigner
	logger         *slog.Logger
	settings       InvitationSettings
	now            func() time.Time
}

func NewInvitationService(
	eventRepo domain.EventRepository,
	invitationRepo domain.InvitationRepository,
	emailService domain.EmailService,
	signer domain.ResponseLinkSigner,
	logger *slog.Logger,
	settings InvitationSettings,
) domain.InvitationService {
	if settings.Concurrency < 1 {
		settings.Concurrency = 1
	}
	return &invitationService{
		eventRepo:      eventRepo,
		invitationRepo: invitationRepo,
		emailService:   emailService,
		signer:         signer,
		logger:         logger,
		settings:       settings,
		now:            time.Now,
	}
}

// SendInvitations validates the whole batch before sending anything, then mails every
// recipient concurrently. A recipient gets a pending invitation record only after its
// email went out. Per-recipient outcomes are returned in request order.
func (s *invitationService) SendInvitations(ctx context.Context, callerID string, in domain.SendInvitationsInput) (*domain.SendInvitationsResult, error) {
	ctx, span := tracer.Start(ctx, "InvitationService.SendInvitations", trace.WithAttributes(
		attribute.String("event_id", in.EventID),
		attribute.Int("recipients", len(in.Recipients)),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.settings.ContextTimeout)
	defer cancel()

	keys, err := validateBatch(in)
	if err != nil {
		return nil, err
	}
	event, err := ownedEvent(ctx, s.eventRepo, keys[0].EventID, callerID)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RecipientResult, len(keys))
	var g errgroup.Group
	g.SetLimit(s.settings.Concurrency)
	for i, key := range keys {
		g.Go(func() error {
			results[i] = s.sendOne(ctx, event, key, in)
			return nil
		})
	}
	_ = g.Wait()

	out := &domain.SendInvitationsResult{Results: results}
	for _, r := range results {
		if r.Status == domain.DeliverySent {
			out.Sent++
		} else {
			out.Failed++
		}
	}
	span.SetAttributes(attribute.Int("sent", out.Sent), attribute.Int("failed", out.Failed))
	s.logger.InfoContext(ctx, "invitations dispatched", "event_id", event.ID, "sent", out.Sent, "failed", out.Failed)
	return out, nil
}

func (s *invitationService) sendOne(ctx context.Context, event *domain.Event, key domain.InvitationKey, in domain.SendInvitationsInput) domain.RecipientResult {
	res := domain.RecipientResult{Email: key.Email, GuestID: key.GuestID, Status: domain.DeliveryFailed}

	token, err := s.signer.Sign(key)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.settings.SendTimeout)
	defer cancel()
	err = s.emailService.SendInvitation(sendCtx, &domain.InvitationEmailData{
		Email:           key.Email,
		Subject:         in.Subject,
		Message:         in.Message,
		EventID:         event.ID,
		EventTitle:      event.Title,
		AttendingURL:    s.responseURL("yes", key, token),
		NotAttendingURL: s.responseURL("no", key, token),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "invitation email failed", "event_id", key.EventID, "to", key.Email, "err", err)
		res.Error = err.Error()
		return res
	}
	res.Status = domain.DeliverySent

	inv := domain.NewPendingInvitation(key, s.now())
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		// The email is out and its links still record a response through Upsert.
		s.logger.ErrorContext(ctx, "record invitation failed", "event_id", key.EventID, "to", key.Email, "err", err)
		res.Error = fmt.Sprintf("record invitation: %v", err)
		return res
	}
	res.Invitation = inv
	return res
}

// responseURL builds BaseURL/response/{answer}?eventId=..&email=..&guestId=..&token=..
func (s *invitationService) responseURL(answer string, key domain.InvitationKey, token string) string {
	q := url.Values{}
	q.Set("eventId", key.EventID)
	q.Set("email", key.Email)
	if key.GuestID != "" {
		q.Set("guestId", key.GuestID)
	}
	q.Set("token", token)
	return s.settings.BaseURL + "/response/" + answer + "?" + q.Encode()
}

// validateBatch rejects the batch as a whole on any invalid field and returns one key per
// distinct recipient, keeping first-seen order.
func validateBatch(in domain.SendInvitationsInput) ([]domain.InvitationKey, error) {
	eventID := strings.TrimSpace(in.EventID)
	switch {
	case eventID == "":
		return nil, fmt.Errorf("%w: event_id is required", domain.ErrInvalidInput)
	case strings.TrimSpace(in.Subject) == "":
		return nil, fmt.Errorf("%w: subject is required", domain.ErrInvalidInput)
	case strings.TrimSpace(in.Message) == "":
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	case len(in.Recipients) == 0:
		return nil, fmt.Errorf("%w: at least one recipient is required", domain.ErrInvalidInput)
	}

	seen := make(map[domain.InvitationKey]struct{}, len(in.Recipients))
	keys := make([]domain.InvitationKey, 0, len(in.Recipients))
	for _, r := range in.Recipients {
		key := domain.NewInvitationKey(eventID, r.Email, r.GuestID)
		if err := validateEmail(key.Email); err != nil {
			return nil, err
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys, nil
}
