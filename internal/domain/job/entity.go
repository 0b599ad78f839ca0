package job

import (
	"time"

	"github.com/google/uuid"

	"crew-match/internal/domain/candidate"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusActive Status = "active"
	StatusOnHold Status = "on_hold"
	StatusFilled Status = "filled"
	StatusClosed Status = "closed"
)

// AcceptsApplications reports whether a posting can still receive new
// applications. Any other status is immutable to new matches.
func (s Status) AcceptsApplications() bool {
	return s == StatusOpen || s == StatusActive
}

// Requirement is the matching-relevant snapshot of a job posting.
type Requirement struct {
	ID       uuid.UUID
	Title    string
	Vessel   string
	Location string

	Position     string
	ContractType string

	RequireSTCW   bool
	RequireENG1   bool
	RequiredVisas []candidate.VisaKind

	MinYearsExperience *int
	StartBy            *time.Time

	SalaryMin int
	SalaryMax int
	Currency  string

	Status        Status
	Public        bool
	AlertsEnabled bool

	PostedAt  time.Time
	UpdatedAt time.Time
}
