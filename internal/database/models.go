package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Insured is the row layout of the insureds table
type Insured struct {
	bun.BaseModel `bun:"table:insureds,alias:i"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid"`
	Name         string     `bun:"name,notnull,type:varchar(50)"`
	NationalID   string     `bun:"national_id,notnull,unique,type:varchar(11)"`
	Email        string     `bun:"email,notnull,unique,type:varchar(254)"`
	PasswordHash string     `bun:"password_hash,notnull"`
	CreatedAt    time.Time  `bun:"created_at,notnull"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull"`
	LastLoginAt  *time.Time `bun:"last_login_at"`
}
