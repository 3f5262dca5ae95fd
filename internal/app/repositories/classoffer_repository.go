package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
)

const classOfferColumns = `o.id, o.session_id, o.subject_id, o.class_day, o.skip_weeks,
	o.start_time, o.created_at, o.updated_at`

// ClassOfferRepository handles database operations for class offers
type ClassOfferRepository struct {
	db *pgxpool.Pool
}

// NewClassOfferRepository creates a new class offer repository
func NewClassOfferRepository(db *pgxpool.Pool) *ClassOfferRepository {
	return &ClassOfferRepository{
		db: db,
	}
}

func scanClassOfferWithSession(row pgx.Row) (*models.ClassOffer, error) {
	var offer models.ClassOffer
	var session models.Session
	err := row.Scan(
		&offer.ID,
		&offer.SessionID,
		&offer.SubjectID,
		&offer.ClassDay,
		&offer.SkipWeeks,
		&offer.StartTime,
		&offer.CreatedAt,
		&offer.UpdatedAt,
		&session.ID,
		&session.Name,
		&session.KeyDayDate,
		&session.MaxDayShift,
		&session.NumWeeks,
		&session.SkipWeeks,
		&session.FlipLastDay,
		&session.BreakWeeks,
		&session.PublishDate,
		&session.ExpireDate,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	offer.Session = &session
	return &offer, nil
}

const classOfferJoinQuery = `
	SELECT ` + classOfferColumns + `,
		s.id, s.name, s.key_day_date, s.max_day_shift, s.num_weeks, s.skip_weeks,
		s.flip_last_day, s.break_weeks, s.publish_date, s.expire_date, s.created_at, s.updated_at
	FROM class_offers o
	JOIN sessions s ON s.id = o.session_id`

// Create inserts a new class offer
func (r *ClassOfferRepository) Create(ctx context.Context, offer *models.ClassOffer) error {
	query := `
		INSERT INTO class_offers (session_id, subject_id, class_day, skip_weeks, start_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		offer.SessionID,
		offer.SubjectID,
		offer.ClassDay,
		offer.SkipWeeks,
		offer.StartTime,
	).Scan(&offer.ID, &offer.CreatedAt, &offer.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a class offer with its session loaded, since every
// window derivation needs the session fields.
func (r *ClassOfferRepository) GetByID(ctx context.Context, id int64) (*models.ClassOffer, error) {
	query := classOfferJoinQuery + ` WHERE o.id = $1`

	offer, err := scanClassOfferWithSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassOfferNotFound
		}
		return nil, err
	}
	return offer, nil
}

// GetBySessionID retrieves all offers scheduled within one session
func (r *ClassOfferRepository) GetBySessionID(ctx context.Context, sessionID int64) ([]*models.ClassOffer, error) {
	query := classOfferJoinQuery + ` WHERE o.session_id = $1 ORDER BY o.class_day, o.id`

	return r.queryOffers(ctx, query, sessionID)
}

// GetRegisteredForUser retrieves the offers a user is registered to, each
// with its session loaded.
func (r *ClassOfferRepository) GetRegisteredForUser(ctx context.Context, userID uuid.UUID) ([]*models.ClassOffer, error) {
	query := classOfferJoinQuery + `
		JOIN registrations reg ON reg.class_offer_id = o.id
		WHERE reg.user_id = $1
		ORDER BY s.key_day_date, o.class_day, o.id`

	return r.queryOffers(ctx, query, userID)
}

func (r *ClassOfferRepository) queryOffers(ctx context.Context, query string, args ...any) ([]*models.ClassOffer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*models.ClassOffer
	for rows.Next() {
		offer, err := scanClassOfferWithSession(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return offers, nil
}
