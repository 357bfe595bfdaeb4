package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"eventrsvp/internal/domain"
)

const invitationColumns = `id, event_id, email, guest_id, rsvp_response, sent_at, responded_at, created_at, updated_at`

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	ctx, span := tracer.Start(ctx, "InvitationRepository.Create", trace.WithAttributes(
		attribute.String("event_id", inv.EventID),
	))
	defer span.End()

	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	query := `
		INSERT INTO invitations (id, event_id, email, guest_id, rsvp_response, sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id, email, guest_id)
		DO UPDATE SET sent_at = EXCLUDED.sent_at, updated_at = EXCLUDED.updated_at
		RETURNING ` + invitationColumns
	row := r.DB.QueryRowContext(ctx, query,
		inv.ID, inv.EventID, inv.RecipientEmail, inv.InvitedGuest, inv.RSVPResponse, inv.SentAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if err := scanInvitation(row, inv); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (r *invitationRepository) FindOne(ctx context.Context, key domain.InvitationKey) (*domain.Invitation, error) {
	ctx, span := tracer.Start(ctx, "InvitationRepository.FindOne", trace.WithAttributes(
		attribute.String("event_id", key.EventID),
	))
	defer span.End()

	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE event_id = $1 AND email = $2 AND guest_id = $3
	`
	inv := &domain.Invitation{}
	err := scanInvitation(r.DB.QueryRowContext(ctx, query, key.EventID, key.Email, key.GuestID), inv)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		span.RecordError(err)
		return nil, err
	}
	return inv, nil
}

// Upsert relies on the unique (event_id, email, guest_id) constraint, so concurrent
// responses for one key serialize in the database and leave exactly one row.
func (r *invitationRepository) Upsert(ctx context.Context, key domain.InvitationKey, response domain.RSVPResponse, at time.Time) (*domain.Invitation, error) {
	ctx, span := tracer.Start(ctx, "InvitationRepository.Upsert", trace.WithAttributes(
		attribute.String("event_id", key.EventID),
		attribute.String("rsvp_response", string(response)),
	))
	defer span.End()

	if !response.Valid() {
		return nil, fmt.Errorf("%w: unknown rsvp response %q", domain.ErrInvalidInput, response)
	}
	query := `
		INSERT INTO invitations (id, event_id, email, guest_id, rsvp_response, responded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $6)
		ON CONFLICT (event_id, email, guest_id)
		DO UPDATE SET rsvp_response = EXCLUDED.rsvp_response,
			responded_at = EXCLUDED.responded_at,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + invitationColumns
	inv := &domain.Invitation{}
	row := r.DB.QueryRowContext(ctx, query, uuid.NewString(), key.EventID, key.Email, key.GuestID, response, at)
	if err := scanInvitation(row, inv); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Invitation, error) {
	ctx, span := tracer.Start(ctx, "InvitationRepository.ListByEventID", trace.WithAttributes(
		attribute.String("event_id", eventID),
	))
	defer span.End()

	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE event_id = $1
		ORDER BY created_at, email, guest_id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer rows.Close()

	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv := &domain.Invitation{}
		if err := scanInvitation(rows, inv); err != nil {
			span.RecordError(err)
			return nil, err
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return invs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner, inv *domain.Invitation) error {
	var sentAt, respondedAt sql.NullTime
	var response string
	err := row.Scan(
		&inv.ID, &inv.EventID, &inv.RecipientEmail, &inv.InvitedGuest, &response,
		&sentAt, &respondedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	inv.RSVPResponse = domain.RSVPResponse(response)
	inv.SentAt = nil
	if sentAt.Valid {
		inv.SentAt = &sentAt.Time
	}
	inv.RespondedAt = nil
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	return nil
}
