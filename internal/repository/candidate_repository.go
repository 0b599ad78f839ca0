package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crew-match/internal/database"
	"crew-match/internal/domain/candidate"
)

var ErrCandidateNotFound = errors.New("candidate not found")

type CandidateRepository interface {
	GetProfileByID(ctx context.Context, id uuid.UUID) (candidate.Profile, error)
	ListActiveProfiles(ctx context.Context, limit, offset int) ([]candidate.Profile, error)
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

const candidateColumns = `
	id, COALESCE(first_name,''), COALESCE(last_name,''), COALESCE(email,''), COALESCE(phone,''),
	COALESCE(primary_position,''), COALESCE(position_category,'other'),
	COALESCE(preferred_positions,'{}'), COALESCE(preferred_locations,'{}'), COALESCE(preferred_contract_types,'{}'),
	COALESCE(years_experience,0),
	COALESCE(has_stcw,false), stcw_expiry, COALESCE(has_eng1,false), eng1_expiry,
	COALESCE(visas,'{}'),
	COALESCE(desired_salary_min,0), COALESCE(desired_salary_max,0), COALESCE(salary_currency,''),
	COALESCE(availability_status,''), available_from,
	COALESCE(verification_tier,0),
	COALESCE(has_cv,false), COALESCE(is_active,true)`

func (r *PostgresCandidateRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (candidate.Profile, error) {
	if id == uuid.Nil {
		return candidate.Profile{}, ErrCandidateNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	p, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return candidate.Profile{}, ErrCandidateNotFound
		}
		return candidate.Profile{}, err
	}
	return p, nil
}

func (r *PostgresCandidateRepository) ListActiveProfiles(ctx context.Context, limit, offset int) ([]candidate.Profile, error) {
	if limit <= 0 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates
		 WHERE is_active = true
		 ORDER BY id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]candidate.Profile, 0)
	for rows.Next() {
		p, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (candidate.Profile, error) {
	var p candidate.Profile
	var category string
	var availability string
	var visas []string
	var tier int

	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.PrimaryPosition, &category,
		&p.PreferredPositions, &p.PreferredLocations, &p.PreferredContractTypes,
		&p.YearsExperience,
		&p.HasSTCW, &p.STCWExpiry, &p.HasENG1, &p.ENG1Expiry,
		&visas,
		&p.DesiredSalaryMin, &p.DesiredSalaryMax, &p.SalaryCurrency,
		&availability, &p.AvailableFrom,
		&tier,
		&p.HasCV, &p.Active,
	)
	if err != nil {
		return candidate.Profile{}, err
	}

	p.PositionCategory = candidate.PositionCategory(category)
	p.Availability = candidate.AvailabilityStatus(availability)
	p.Verification = candidate.VerificationTier(tier)
	p.Visas = make([]candidate.VisaKind, 0, len(visas))
	for _, v := range visas {
		p.Visas = append(p.Visas, candidate.VisaKind(v))
	}
	return p, nil
}
