package insured

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Insured is the registered identity. PasswordHash never leaves the core;
// use ToResponse for anything sent to a client.
type Insured struct {
	ID           uuid.UUID
	Name         string
	NationalID   string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// Response is the external representation of an insured
type Response struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	NationalID  string     `json:"cpf"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func (i *Insured) ToResponse() Response {
	return Response{
		ID:          i.ID,
		Name:        i.Name,
		Email:       i.Email,
		NationalID:  i.NationalID,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
		LastLoginAt: i.LastLoginAt,
	}
}

// clone returns a deep copy so stores never share mutable state with callers
func (i *Insured) clone() *Insured {
	c := *i
	if i.LastLoginAt != nil {
		t := *i.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}

// NormalizeEmail trims and lower-cases an email address so it can be used as a login handle
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
