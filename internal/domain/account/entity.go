package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("account not found")

const (
	RoleCandidate = "candidate"
	RoleRecruiter = "recruiter"
)

// Account is a login identity. For candidates the account id doubles as the
// candidate profile id.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
