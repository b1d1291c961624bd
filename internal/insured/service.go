package insured

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/redmonkez12/insured-api/internal/cpf"
	"github.com/redmonkez12/insured-api/internal/logging"
	"github.com/redmonkez12/insured-api/internal/password"
)

// Service owns the insured record lifecycle: registration, credential
// checks and self-service edits.
type Service struct {
	store    Store
	hasher   *password.Hasher
	validate *validator.Validate
	logger   *logging.Logger
	now      func() time.Time

	// dummyHash is verified when an email is unknown so both failure paths cost the same
	dummyHash string
}

func NewService(store Store, hasher *password.Hasher, logger *logging.Logger) *Service {
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		logger.Warn("failed to prepare dummy password hash", "error", err)
	}

	return &Service{
		store:     store,
		hasher:    hasher,
		validate:  NewValidator(),
		logger:    logger,
		now:       time.Now,
		dummyHash: dummyHash,
	}
}

// timestamp returns the current time at the precision Postgres stores
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Register validates the input and creates a new insured.
// Validation problems are reported together as a *ValidationError and nothing is persisted.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Insured, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	verr := newValidationError()
	if err := s.validate.StructCtx(ctx, in); err != nil {
		if err := collectFieldErrors(err, verr); err != nil {
			return nil, fmt.Errorf("failed to validate registration: %w", err)
		}
	}

	nationalID := cpf.Normalize(in.NationalID)

	if !verr.Has("email") {
		taken, err := s.store.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("email", msgDuplicateEmail)
		}
	}
	if !verr.Has("cpf") {
		taken, err := s.store.ExistsByNationalID(ctx, nationalID)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("cpf", msgDuplicateCPF)
		}
	}

	if !verr.empty() {
		return nil, verr
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.timestamp()
	created, err := s.store.Create(ctx, &Insured{
		ID:           uuid.New(),
		Name:         in.Name,
		NationalID:   nationalID,
		Email:        in.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// A concurrent registration won the unique constraint after our pre-checks
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			s.logger.Warn("registration lost unique email race", "email", in.Email)
			return nil, fieldError("email", msgDuplicateEmail)
		case errors.Is(err, ErrDuplicateNationalID):
			s.logger.Warn("registration lost unique cpf race", "email", in.Email)
			return nil, fieldError("cpf", msgDuplicateCPF)
		}
		return nil, fmt.Errorf("failed to create insured: %w", err)
	}

	return created, nil
}

// VerifyCredentials returns the insured owning email when password matches.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) VerifyCredentials(ctx context.Context, email, pw string) (*Insured, error) {
	email = NormalizeEmail(email)
	// No stored password can exceed MaxPasswordLength, so skip hashing
	if email == "" || pw == "" || utf8.RuneCountInString(pw) > MaxPasswordLength {
		return nil, ErrInvalidCredentials
	}

	rec, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.hasher.Verify(s.dummyHash, pw)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get insured: %w", err)
	}

	if !s.hasher.Verify(rec.PasswordHash, pw) {
		return nil, ErrInvalidCredentials
	}

	return rec, nil
}

// ApplyEdit merges intent into the stored record and always bumps UpdatedAt.
func (s *Service) ApplyEdit(ctx context.Context, id uuid.UUID, intent EditIntent) (*Insured, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if intent.Name != nil {
		rec.Name = *intent.Name
	}
	if intent.Password != nil {
		passwordHash, err := s.hasher.Hash(*intent.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		rec.PasswordHash = passwordHash
	}

	rec.UpdatedAt = s.timestamp()
	if rec.UpdatedAt.Before(rec.CreatedAt) {
		rec.UpdatedAt = rec.CreatedAt
	}

	if err := s.store.Update(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// RecordLogin stamps LastLoginAt. UpdatedAt is left as is.
func (s *Service) RecordLogin(ctx context.Context, id uuid.UUID) error {
	return s.store.UpdateLastLogin(ctx, id, s.timestamp())
}

// Get returns the insured with the given id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Insured, error) {
	return s.store.GetByID(ctx, id)
}
