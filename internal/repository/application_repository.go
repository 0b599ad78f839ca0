package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"crew-match/internal/database"
	"crew-match/internal/domain/application"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	// ErrDuplicateApplication maps the partial unique index on non-rejected
	// (candidate_id, job_id) rows. It resolves the double-apply race: the
	// gate treats it as an already_applied outcome, not a failure.
	ErrDuplicateApplication = errors.New("duplicate application")
)

type ApplicationRepository interface {
	Create(ctx context.Context, rec application.Record) error
	GetByID(ctx context.Context, id uuid.UUID) (application.Record, error)
	FindActiveByCandidateAndJob(ctx context.Context, candidateID, jobID uuid.UUID) (application.Record, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage application.Stage, reason string) error
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `
	id, candidate_id, job_id, COALESCE(stage,'applied'), COALESCE(source,''),
	applied_at, interview_at, placed_at, COALESCE(reason,'')`

func (r *PostgresApplicationRepository) Create(ctx context.Context, rec application.Record) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, candidate_id, job_id, stage, source, applied_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		rec.ID, rec.CandidateID, rec.JobID, string(rec.Stage), rec.Source, rec.AppliedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Record, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	rec, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return application.Record{}, ErrApplicationNotFound
		}
		return application.Record{}, err
	}
	return rec, nil
}

func (r *PostgresApplicationRepository) FindActiveByCandidateAndJob(ctx context.Context, candidateID, jobID uuid.UUID) (application.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE candidate_id = $1 AND job_id = $2 AND stage <> 'rejected'
		 LIMIT 1`,
		candidateID, jobID,
	)
	rec, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return application.Record{}, ErrApplicationNotFound
		}
		return application.Record{}, err
	}
	return rec, nil
}

func (r *PostgresApplicationRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage application.Stage, reason string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE applications SET
			stage = $2,
			reason = CASE WHEN $3 <> '' THEN $3 ELSE reason END,
			interview_at = CASE WHEN $2 = 'interview' THEN now() ELSE interview_at END,
			placed_at = CASE WHEN $2 = 'placed' THEN now() ELSE placed_at END
		 WHERE id = $1`,
		id, string(stage), reason,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func scanApplication(row rowScanner) (application.Record, error) {
	var rec application.Record
	var stage string

	err := row.Scan(
		&rec.ID, &rec.CandidateID, &rec.JobID, &stage, &rec.Source,
		&rec.AppliedAt, &rec.InterviewAt, &rec.PlacedAt, &rec.Reason,
	)
	if err != nil {
		return application.Record{}, err
	}
	rec.Stage = application.Stage(stage)
	return rec, nil
}
