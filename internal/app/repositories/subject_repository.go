package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
)

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{
		db: db,
	}
}

// Create inserts a new subject
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (name, level, version)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, subject.Name, subject.Level, subject.Version).
		Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := `SELECT id, name, level, version, created_at, updated_at FROM subjects WHERE id = $1`

	var subject models.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.Name,
		&subject.Level,
		&subject.Version,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, err
	}

	return &subject, nil
}
