package insured

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/insured-api/internal/database"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

// Repository handles insured persistence in Postgres
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new insured. Unique constraints on email and national_id
// decide concurrent registrations.
func (r *Repository) Create(ctx context.Context, rec *Insured) (*Insured, error) {
	row := mapModelToDB(rec)

	_, err := r.db.NewInsert().
		Model(row).
		Exec(ctx)
	if err != nil {
		if dup := translateUniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to create insured: %w", err)
	}

	return mapDBToModel(row), nil
}

// GetByID retrieves an insured by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Insured, error) {
	row := new(database.Insured)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get insured by id: %w", err)
	}

	return mapDBToModel(row), nil
}

// GetByEmail retrieves an insured by normalized email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Insured, error) {
	row := new(database.Insured)
	err := r.db.NewSelect().
		Model(row).
		Where("email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get insured by email: %w", err)
	}

	return mapDBToModel(row), nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.Insured)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *Repository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.Insured)(nil)).
		Where("national_id = ?", nationalID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check cpf: %w", err)
	}
	return exists, nil
}

// Update writes the mutable profile columns. Email and national_id are never touched.
func (r *Repository) Update(ctx context.Context, rec *Insured) error {
	result, err := r.db.NewUpdate().
		Model((*database.Insured)(nil)).
		Set("name = ?", rec.Name).
		Set("password_hash = ?", rec.PasswordHash).
		Set("updated_at = ?", rec.UpdatedAt).
		Where("id = ?", rec.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update insured: %w", err)
	}

	return requireRowAffected(result)
}

// UpdateLastLogin stamps last_login_at without bumping updated_at
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*database.Insured)(nil)).
		Set("last_login_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}

	return requireRowAffected(result)
}

func requireRowAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// translateUniqueViolation maps a unique constraint failure to the matching
// duplicate error, or returns nil for any other error.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return duplicateFor(pqErr.Constraint + " " + pqErr.Message)
	}

	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return duplicateFor(err.Error())
	}

	return nil
}

func duplicateFor(detail string) error {
	switch {
	case strings.Contains(detail, "national_id"):
		return ErrDuplicateNationalID
	case strings.Contains(detail, "email"):
		return ErrDuplicateEmail
	default:
		return ErrDuplicateEmail
	}
}

// mapDBToModel converts database model to domain model
func mapDBToModel(row *database.Insured) *Insured {
	return &Insured{
		ID:           row.ID,
		Name:         row.Name,
		NationalID:   row.NationalID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LastLoginAt:  row.LastLoginAt,
	}
}

func mapModelToDB(rec *Insured) *database.Insured {
	return &database.Insured{
		ID:           rec.ID,
		Name:         rec.Name,
		NationalID:   rec.NationalID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		LastLoginAt:  rec.LastLoginAt,
	}
}
