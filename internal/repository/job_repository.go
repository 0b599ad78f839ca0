package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crew-match/internal/database"
	"crew-match/internal/domain/candidate"
	"crew-match/internal/domain/job"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	ExistsByID(ctx context.Context, jobID uuid.UUID) (bool, error)
	GetRequirementByID(ctx context.Context, jobID uuid.UUID) (job.Requirement, error)
	ListOpenWithAlerts(ctx context.Context, limit int) ([]job.Requirement, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `
	id, COALESCE(title,''), COALESCE(vessel,''), COALESCE(location,''),
	COALESCE(position,''), COALESCE(contract_type,''),
	COALESCE(require_stcw,false), COALESCE(require_eng1,false), COALESCE(required_visas,'{}'),
	min_years_experience, start_by,
	COALESCE(salary_min,0), COALESCE(salary_max,0), COALESCE(currency,''),
	COALESCE(status,'closed'), COALESCE(is_public,false), COALESCE(alerts_enabled,false),
	posted_at, updated_at`

func (r *PostgresJobRepository) ExistsByID(ctx context.Context, jobID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, jobID)
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresJobRepository) GetRequirementByID(ctx context.Context, jobID uuid.UUID) (job.Requirement, error) {
	if jobID == uuid.Nil {
		return job.Requirement{}, ErrJobNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return job.Requirement{}, ErrJobNotFound
		}
		return job.Requirement{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) ListOpenWithAlerts(ctx context.Context, limit int) ([]job.Requirement, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE status IN ('open','active') AND alerts_enabled = true
		 ORDER BY posted_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Requirement, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row rowScanner) (job.Requirement, error) {
	var j job.Requirement
	var status string
	var visas []string
	var postedAt, updatedAt sql.NullTime

	err := row.Scan(
		&j.ID, &j.Title, &j.Vessel, &j.Location,
		&j.Position, &j.ContractType,
		&j.RequireSTCW, &j.RequireENG1, &visas,
		&j.MinYearsExperience, &j.StartBy,
		&j.SalaryMin, &j.SalaryMax, &j.Currency,
		&status, &j.Public, &j.AlertsEnabled,
		&postedAt, &updatedAt,
	)
	if err != nil {
		return job.Requirement{}, err
	}

	j.Status = job.Status(status)
	if postedAt.Valid {
		j.PostedAt = postedAt.Time
	}
	if updatedAt.Valid {
		j.UpdatedAt = updatedAt.Time
	}
	j.RequiredVisas = make([]candidate.VisaKind, 0, len(visas))
	for _, v := range visas {
		j.RequiredVisas = append(j.RequiredVisas, candidate.VisaKind(v))
	}
	return j, nil
}
