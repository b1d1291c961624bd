package insured

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists insured records.
//
// Create must enforce email and national id uniqueness atomically and
// report violations as ErrDuplicateEmail / ErrDuplicateNationalID.
// Lookups and updates report a missing record as ErrNotFound.
type Store interface {
	Create(ctx context.Context, rec *Insured) (*Insured, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Insured, error)
	GetByEmail(ctx context.Context, email string) (*Insured, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	// Update writes name, password hash and updated_at
	Update(ctx context.Context, rec *Insured) error
	// UpdateLastLogin writes last_login_at only
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
