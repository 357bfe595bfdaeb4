package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

const eventColumns = `id, title, description, date, time, location, image_url, owner_id, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	ctx, span := tracer.Start(ctx, "EventRepository.Create")
	defer span.End()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO events (id, title, description, date, time, location, image_url, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Location, e.ImageURL, e.OwnerID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, span := tracer.Start(ctx, "EventRepository.GetByID")
	defer span.End()

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e := &domain.Event{}
	if err := scanEvent(r.DB.QueryRowContext(ctx, query, id), e, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, domain.ErrNotFound
		}
		span.RecordError(err)
		return nil, err
	}
	return e, nil
}

// ListByOwnerID returns one page of the owner's events, newest first, and the total count.
func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, span := tracer.Start(ctx, "EventRepository.ListByOwnerID")
	defer span.End()

	var limit any
	if params.Limit() > 0 {
		limit = params.Limit()
	}
	query := `
		SELECT ` + eventColumns + `, COUNT(*) OVER() AS total
		FROM events
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

	events := make([]*domain.Event, 0)
	total := 0
	for rows.Next() {
		e := &domain.Event{}
		if err := scanEvent(rows, e, &total); err != nil {
			span.RecordError(err)
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	ctx, span := tracer.Start(ctx, "EventRepository.Update")
	defer span.End()

	query := `
		UPDATE events
		SET title = $1, description = $2, date = $3, time = $4, location = $5, image_url = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.Date, e.Time, e.Location, e.ImageURL, e.UpdatedAt, e.ID,
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

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "EventRepository.Delete")
	defer span.End()

	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
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

// scanEvent reads eventColumns into e. When total is non-nil a trailing count column is read into it.
func scanEvent(row rowScanner, e *domain.Event, total *int) error {
	var date sql.NullTime
	dest := []any{
		&e.ID, &e.Title, &e.Description, &date, &e.Time, &e.Location, &e.ImageURL, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if date.Valid {
		e.Date = &date.Time
	}
	return nil
}
