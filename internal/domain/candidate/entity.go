package candidate

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type AvailabilityStatus string

const (
	AvailableNow    AvailabilityStatus = "available_now"
	ActivelyLooking AvailabilityStatus = "actively_looking"
	EmployedNotice  AvailabilityStatus = "employed_notice"
	NotLooking      AvailabilityStatus = "not_looking"
)

// VerificationTier is ordinal: higher values mean a higher-trust profile.
type VerificationTier int

const (
	TierBasic VerificationTier = iota
	TierIdentity
	TierVerified
	TierPremium
)

type VisaKind string

const (
	VisaB1B2      VisaKind = "b1b2"
	VisaSchengen  VisaKind = "schengen"
	VisaC1D       VisaKind = "c1d"
	VisaGreenCard VisaKind = "green_card"
)

type PositionCategory string

const (
	CategoryDeck        PositionCategory = "deck"
	CategoryInterior    PositionCategory = "interior"
	CategoryEngineering PositionCategory = "engineering"
	CategoryGalley      PositionCategory = "galley"
	CategoryOther       PositionCategory = "other"
)

// Profile is a matching-relevant snapshot of a crew member. It is loaded
// per request and never mutated by the engine.
type Profile struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     string

	PrimaryPosition  string
	PositionCategory PositionCategory

	PreferredPositions     []string
	PreferredLocations     []string
	PreferredContractTypes []string

	YearsExperience int

	HasSTCW    bool
	STCWExpiry *time.Time
	HasENG1    bool
	ENG1Expiry *time.Time

	Visas []VisaKind

	DesiredSalaryMin int
	DesiredSalaryMax int
	SalaryCurrency   string

	Availability  AvailabilityStatus
	AvailableFrom *time.Time

	Verification VerificationTier

	HasCV  bool
	Active bool
}

func (p Profile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

func (p Profile) HasVisa(kind VisaKind) bool {
	for _, v := range p.Visas {
		if v == kind {
			return true
		}
	}
	return false
}

// CertValidAt reports whether a held certificate is still valid at the given
// time. A nil expiry means the certificate does not expire.
func CertValidAt(held bool, expiry *time.Time, at time.Time) bool {
	if !held {
		return false
	}
	if expiry == nil {
		return true
	}
	return !expiry.Before(at)
}

// NormalizePositionCategory maps a free-text position to its crew department,
// mirroring the vocabulary used by the profile import pipeline.
func NormalizePositionCategory(position string) PositionCategory {
	lower := strings.ToLower(strings.TrimSpace(position))
	if lower == "" {
		return CategoryOther
	}

	deck := []string{"captain", "first officer", "second officer", "third officer", "bosun", "deckhand", "mate"}
	interior := []string{"chief stewardess", "chief stew", "stewardess", "stew", "purser", "butler", "housekeeper"}
	engineering := []string{"chief engineer", "second engineer", "third engineer", "engineer", "eto", "av/it"}
	galley := []string{"head chef", "chef", "sous chef", "cook", "galley"}

	switch {
	case containsAny(lower, deck):
		return CategoryDeck
	case containsAny(lower, interior):
		return CategoryInterior
	case containsAny(lower, engineering):
		return CategoryEngineering
	case containsAny(lower, galley):
		return CategoryGalley
	default:
		return CategoryOther
	}
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
