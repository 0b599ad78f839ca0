package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crew-match/internal/database"
)

const DocumentTypeCV = "cv"

// DocumentRepository is the narrow document-store contract the eligibility
// gate needs: whether a CV is on file. Upload mechanics live elsewhere.
type DocumentRepository interface {
	HasDocument(ctx context.Context, candidateID uuid.UUID, docType string) (bool, error)
}

type PostgresDocumentRepository struct {
	db database.DB
}

func NewPostgresDocumentRepository(db database.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

func (r *PostgresDocumentRepository) HasDocument(ctx context.Context, candidateID uuid.UUID, docType string) (bool, error) {
	if candidateID == uuid.Nil {
		return false, nil
	}

	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM documents WHERE candidate_id = $1 AND doc_type = $2 AND deleted_at IS NULL)`,
		candidateID, docType,
	)
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}
