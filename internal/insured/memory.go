package insured

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Store for development and tests.
// A single lock covers check-and-insert, so uniqueness holds under concurrency.
type MemoryRepository struct {
	mu           sync.RWMutex
	byID         map[uuid.UUID]*Insured
	byEmail      map[string]uuid.UUID
	byNationalID map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:         make(map[uuid.UUID]*Insured),
		byEmail:      make(map[string]uuid.UUID),
		byNationalID: make(map[string]uuid.UUID),
	}
}

func (r *MemoryRepository) Create(_ context.Context, rec *Insured) (*Insured, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[rec.Email]; ok {
		return nil, ErrDuplicateEmail
	}
	if _, ok := r.byNationalID[rec.NationalID]; ok {
		return nil, ErrDuplicateNationalID
	}

	stored := rec.clone()
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID
	r.byNationalID[stored.NationalID] = stored.ID

	return stored.clone(), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Insured, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.clone(), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*Insured, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *MemoryRepository) ExistsByNationalID(_ context.Context, nationalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byNationalID[nationalID]
	return ok, nil
}

func (r *MemoryRepository) Update(_ context.Context, rec *Insured) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[rec.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Name = rec.Name
	stored.PasswordHash = rec.PasswordHash
	stored.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *MemoryRepository) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	stored.LastLoginAt = &at
	return nil
}

// Delete removes a record. It is not part of Store and no service operation
// deletes insureds; it exists so tests in this and other packages can make a
// record vanish after a token was issued for it.
func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byEmail, stored.Email)
	delete(r.byNationalID, stored.NationalID)
	delete(r.byID, id)
	return nil
}
