package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventrsvp/internal/domain"
)

// Postgres SQLSTATE codes mapped onto domain errors.
const (
	pqUniqueViolation           = "23505"
	pqInvalidTextRepresentation = "22P02"
)

// isMalformedID reports whether Postgres rejected an id that is not a valid UUID.
func isMalformedID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqInvalidTextRepresentation
}

const userColumns = `id, email, password_hash, salt, name, verified, verified_at, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, span := tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	query := `
		INSERT INTO users (id, email, password_hash, salt, name, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.Salt, u.Name, u.Verified, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return domain.ErrDuplicateEmail
		}
		span.RecordError(err)
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.get(ctx, query, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByID")
	defer span.End()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

// MarkVerified flags the user as verified. Verifying twice keeps the first verified_at.
func (r *userRepository) MarkVerified(ctx context.Context, id string, at time.Time) error {
	ctx, span := tracer.Start(ctx, "UserRepository.MarkVerified")
	defer span.End()

	query := `
		UPDATE users
		SET verified = TRUE, verified_at = COALESCE(verified_at, $2), updated_at = $2
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		if isMalformedID(err) {
			return domain.ErrNotFound
		}
		span.RecordError(err)
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) get(ctx context.Context, query, arg string) (*domain.User, error) {
	u := &domain.User{}
	var verifiedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Salt, &u.Name, &u.Verified, &verifiedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if verifiedAt.Valid {
		u.VerifiedAt = &verifiedAt.Time
	}
	return u, nil
}
