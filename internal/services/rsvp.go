package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"eventrsvp/internal/domain"
)

type rsvpService struct {
	eventRepo      domain.EventRepository
	invitationRepo domain.InvitationRepository
	signer         domain.ResponseLinkSigner
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewRSVPService(
	eventRepo domain.EventRepository,
	invitationRepo domain.InvitationRepository,
	signer domain.ResponseLinkSigner,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RSVPService {
	return &rsvpService{
		eventRepo:      eventRepo,
		invitationRepo: invitationRepo,
		signer:         signer,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *rsvpService) RecordLinkResponse(ctx context.Context, params domain.ResponseLinkParams, response domain.RSVPResponse) (*domain.Invitation, error) {
	ctx, span := tracer.Start(ctx, "RSVPService.RecordLinkResponse", trace.WithAttributes(
		attribute.String("event_id", params.EventID),
		attribute.String("rsvp_response", string(response)),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key := domain.NewInvitationKey(params.EventID, params.Email, params.GuestID)
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLink, err)
	}
	if err := s.signer.Verify(params.Token, key); err != nil {
		return nil, err
	}
	inv, err := s.invitationRepo.Upsert(ctx, key, response, s.now())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("record response: %w", err)
	}
	s.logger.InfoContext(ctx, "rsvp recorded", "event_id", key.EventID, "guest_id", key.GuestID, "response", response)
	return inv, nil
}

func (s *rsvpService) SubmitRSVP(ctx context.Context, eventID, callerID, email, guestID string, response domain.RSVPResponse) (*domain.Invitation, error) {
	ctx, span := tracer.Start(ctx, "RSVPService.SubmitRSVP", trace.WithAttributes(
		attribute.String("event_id", eventID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key := domain.NewInvitationKey(eventID, email, guestID)
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if err := validateEmail(key.Email); err != nil {
		return nil, err
	}
	if !response.Valid() {
		return nil, fmt.Errorf("%w: unknown rsvp response %q", domain.ErrInvalidInput, response)
	}
	if _, err := ownedEvent(ctx, s.eventRepo, key.EventID, callerID); err != nil {
		return nil, err
	}
	inv, err := s.invitationRepo.Upsert(ctx, key, response, s.now())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("record response: %w", err)
	}
	return inv, nil
}

func (s *rsvpService) ListGuestResponses(ctx context.Context, eventID, callerID string) (*domain.GuestResponses, error) {
	ctx, span := tracer.Start(ctx, "RSVPService.ListGuestResponses", trace.WithAttributes(
		attribute.String("event_id", eventID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := ownedEvent(ctx, s.eventRepo, eventID, callerID); err != nil {
		return nil, err
	}
	invs, err := s.invitationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return &domain.GuestResponses{
		EventID:     eventID,
		Summary:     domain.Summarize(invs),
		Invitations: invs,
	}, nil
}
