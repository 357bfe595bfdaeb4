package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

const guestColumns = `id, event_id, name, email, whatsapp_number, description, image_url, owner_id, created_at, updated_at`

type guestRepository struct {
	DB *sql.DB
}

func NewGuestRepository(db *sql.DB) domain.GuestRepository {
	return &guestRepository{DB: db}
}

func (r *guestRepository) Create(ctx context.Context, g *domain.Guest) error {
	ctx, span := tracer.Start(ctx, "GuestRepository.Create")
	defer span.End()

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	query := `
		INSERT INTO guests (id, event_id, name, email, whatsapp_number, description, image_url, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query,
		g.ID, g.EventID, g.Name, g.Email, g.WhatsappNumber, g.Description, g.ImageURL, g.OwnerID, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (r *guestRepository) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	ctx, span := tracer.Start(ctx, "GuestRepository.GetByID")
	defer span.End()

	query := `SELECT ` + guestColumns + ` FROM guests WHERE id = $1`
	g := &domain.Guest{}
	if err := scanGuest(r.DB.QueryRowContext(ctx, query, id), g); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, domain.ErrNotFound
		}
		span.RecordError(err)
		return nil, err
	}
	return g, nil
}

func (r *guestRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	ctx, span := tracer.Start(ctx, "GuestRepository.ListByEventID")
	defer span.End()

	query := `SELECT ` + guestColumns + ` FROM guests WHERE event_id = $1 ORDER BY name`
	return r.list(ctx, query, eventID)
}

// ListByOwnerID returns one page of the owner's guests across all events, newest first,
// and the total count.
func (r *guestRepository) ListByOwnerID(ctx context.Context, ownerID string, params domain.PaginationParams) ([]*domain.Guest, int, error) {
	ctx, span := tracer.Start(ctx, "GuestRepository.ListByOwnerID")
	defer span.End()

	var limit any
	if params.Limit() > 0 {
		limit = params.Limit()
	}
	query := `
		SELECT ` + guestColumns + `, COUNT(*) OVER() AS total
		FROM guests
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, params.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}
	defer rows.Close()

	guests := make([]*domain.Guest, 0)
	total := 0
	for rows.Next() {
		g := &domain.Guest{}
		if err := scanGuest(rows, g, &total); err != nil {
			span.RecordError(err)
			return nil, 0, err
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}
	return guests, total, nil
}

func (r *guestRepository) list(ctx context.Context, query string, arg string) ([]*domain.Guest, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guests := make([]*domain.Guest, 0)
	for rows.Next() {
		g := &domain.Guest{}
		if err := scanGuest(rows, g); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (r *guestRepository) Update(ctx context.Context, g *domain.Guest) error {
	ctx, span := tracer.Start(ctx, "GuestRepository.Update")
	defer span.End()

	query := `
		UPDATE guests
		SET name = $1, email = $2, whatsapp_number = $3, description = $4, image_url = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.DB.ExecContext(ctx, query,
		g.Name, g.Email, g.WhatsappNumber, g.Description, g.ImageURL, g.UpdatedAt, g.ID,
	)
	if err != nil {
		span.RecordError(err)
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "GuestRepository.Delete")
	defer span.End()

	result, err := r.DB.ExecContext(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanGuest reads guestColumns into g, followed by any extra columns such as a window total.
func scanGuest(row rowScanner, g *domain.Guest, extra ...any) error {
	dest := []any{
		&g.ID, &g.EventID, &g.Name, &g.Email, &g.WhatsappNumber, &g.Description, &g.ImageURL, &g.OwnerID, &g.CreatedAt, &g.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}
