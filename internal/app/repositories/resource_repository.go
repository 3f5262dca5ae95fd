package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
)

const resourceColumns = `r.id, r.content_type, r.title, r.link, r.avail, r.expire,
	r.created_at, r.updated_at`

// ResourceRepository handles database operations for resources and their
// many-to-many links to subjects and class offers.
type ResourceRepository struct {
	db *pgxpool.Pool
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{
		db: db,
	}
}

func scanResource(row pgx.Row) (*models.Resource, error) {
	var resource models.Resource
	err := row.Scan(
		&resource.ID,
		&resource.ContentType,
		&resource.Title,
		&resource.Link,
		&resource.Avail,
		&resource.Expire,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// Create inserts a new resource
func (r *ResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	query := `
		INSERT INTO resources (content_type, title, link, avail, expire)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		resource.ContentType,
		resource.Title,
		resource.Link,
		resource.Avail,
		resource.Expire,
	).Scan(&resource.ID, &resource.CreatedAt, &resource.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a resource by ID
func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources r WHERE r.id = $1`

	resource, err := scanResource(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, err
	}
	return resource, nil
}

// AttachToClassOffer links a resource directly to a class offer
func (r *ResourceRepository) AttachToClassOffer(ctx context.Context, resourceID, classOfferID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO class_offer_resources (class_offer_id, resource_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		classOfferID, resourceID)
	return err
}

// AttachToSubject links a resource to a subject, making it visible to every
// offer of that subject.
func (r *ResourceRepository) AttachToSubject(ctx context.Context, resourceID, subjectID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO subject_resources (subject_id, resource_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		subjectID, resourceID)
	return err
}

// ForClassOffer retrieves the distinct catalog linked to an offer either
// directly or through its subject.
func (r *ResourceRepository) ForClassOffer(ctx context.Context, classOfferID, subjectID int64) ([]*models.Resource, error) {
	query := `
		SELECT DISTINCT ` + resourceColumns + `
		FROM resources r
		LEFT JOIN class_offer_resources cor ON cor.resource_id = r.id
		LEFT JOIN subject_resources sr ON sr.resource_id = r.id
		WHERE cor.class_offer_id = $1 OR sr.subject_id = $2
		ORDER BY r.id
	`

	rows, err := r.db.Query(ctx, query, classOfferID, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []*models.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return resources, nil
}
