package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/dberrors"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so chain lookups can
// run inside or outside the lifecycle transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const sessionColumns = `id, name, key_day_date, max_day_shift, num_weeks, skip_weeks,
	flip_last_day, break_weeks, publish_date, expire_date, created_at, updated_at`

// SessionRepository handles database operations for sessions. The
// previous/next chain relation is a pair of indexed range queries over
// key_day_date, never a stored pointer.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
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
	return &session, nil
}

// mapSessionErr converts driver errors into the application taxonomy.
func mapSessionErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrSessionNotFound
	case dberrors.IsDuplicateConstraintError(err, "sessions_name_key"):
		return apperrors.ErrSessionAlreadyExists
	case dberrors.IsConcurrencyConflict(err):
		return apperrors.ErrConcurrencyConflict
	}
	return err
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapSessionErr(err)
	}
	return session, nil
}

// GetByName retrieves a session by its unique name
func (r *SessionRepository) GetByName(ctx context.Context, name string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE name = $1`

	session, err := scanSession(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, mapSessionErr(err)
	}
	return session, nil
}

// GetAll retrieves all sessions in chain order
func (r *SessionRepository) GetAll(ctx context.Context) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY key_day_date, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// lastBefore finds the session with the greatest key day strictly before the
// given day (or the globally greatest when day is nil). Ties on key day
// resolve to the highest id so the result is deterministic.
func (r *SessionRepository) lastBefore(ctx context.Context, q querier, before *time.Time, excludeID int64, lock bool) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id <> $1`
	args := []any{excludeID}
	if before != nil {
		query += ` AND key_day_date < $2`
		args = append(args, *before)
	}
	query += ` ORDER BY key_day_date DESC, id DESC LIMIT 1`
	if lock {
		query += ` FOR UPDATE`
	}

	session, err := scanSession(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // empty chain is not an error
		}
		return nil, mapSessionErr(err)
	}
	return session, nil
}

// LastBefore is the unlocked chain lookup used by read paths.
func (r *SessionRepository) LastBefore(ctx context.Context, before *time.Time, excludeID int64) (*models.Session, error) {
	return r.lastBefore(ctx, r.db, before, excludeID, false)
}

// LastBeforeTx locks the previous session row for the duration of the
// lifecycle transaction.
func (r *SessionRepository) LastBeforeTx(ctx context.Context, tx pgx.Tx, before *time.Time, excludeID int64) (*models.Session, error) {
	return r.lastBefore(ctx, tx, before, excludeID, true)
}

// nextAfter finds the session with the smallest key day strictly after the
// given day whose length clears the filler threshold.
func (r *SessionRepository) nextAfter(ctx context.Context, q querier, after time.Time, minWeeks int, excludeID int64, lock bool) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE id <> $1 AND key_day_date > $2 AND num_weeks > $3
		ORDER BY key_day_date, id LIMIT 1`
	if lock {
		query += ` FOR UPDATE`
	}

	session, err := scanSession(q.QueryRow(ctx, query, excludeID, after, minWeeks))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapSessionErr(err)
	}
	return session, nil
}

// NextAfter is the unlocked forward chain lookup used by read paths.
func (r *SessionRepository) NextAfter(ctx context.Context, after time.Time, minWeeks int, excludeID int64) (*models.Session, error) {
	return r.nextAfter(ctx, r.db, after, minWeeks, excludeID, false)
}

// NextAfterTx locks the next session row for the duration of the lifecycle
// transaction.
func (r *SessionRepository) NextAfterTx(ctx context.Context, tx pgx.Tx, after time.Time, minWeeks int, excludeID int64) (*models.Session, error) {
	return r.nextAfter(ctx, tx, after, minWeeks, excludeID, true)
}

// CreateTx inserts a new session inside the lifecycle transaction
func (r *SessionRepository) CreateTx(ctx context.Context, tx pgx.Tx, session *models.Session) error {
	query := `
		INSERT INTO sessions (name, key_day_date, max_day_shift, num_weeks, skip_weeks,
			flip_last_day, break_weeks, publish_date, expire_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		session.Name,
		session.KeyDayDate,
		session.MaxDayShift,
		session.NumWeeks,
		session.SkipWeeks,
		session.FlipLastDay,
		session.BreakWeeks,
		session.PublishDate,
		session.ExpireDate,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return mapSessionErr(err)
	}

	return nil
}

// UpdateTx writes the full session row inside the lifecycle transaction
func (r *SessionRepository) UpdateTx(ctx context.Context, tx pgx.Tx, session *models.Session) error {
	query := `
		UPDATE sessions
		SET name = $1, key_day_date = $2, max_day_shift = $3, num_weeks = $4,
			skip_weeks = $5, flip_last_day = $6, break_weeks = $7,
			publish_date = $8, expire_date = $9, updated_at = NOW()
		WHERE id = $10
	`

	cmdTag, err := tx.Exec(ctx, query,
		session.Name,
		session.KeyDayDate,
		session.MaxDayShift,
		session.NumWeeks,
		session.SkipWeeks,
		session.FlipLastDay,
		session.BreakWeeks,
		session.PublishDate,
		session.ExpireDate,
		session.ID,
	)
	if err != nil {
		return mapSessionErr(err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}

	return nil
}

// UpdateBreakWeeksTx persists an overlap-resolution change to a neighboring
// session's break weeks.
func (r *SessionRepository) UpdateBreakWeeksTx(ctx context.Context, tx pgx.Tx, id int64, breakWeeks int) error {
	cmdTag, err := tx.Exec(ctx,
		`UPDATE sessions SET break_weeks = $1, updated_at = NOW() WHERE id = $2`,
		breakWeeks, id)
	if err != nil {
		return mapSessionErr(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// UpdatePublishDateTx propagates an expire date forward onto the next
// session's publish date.
func (r *SessionRepository) UpdatePublishDateTx(ctx context.Context, tx pgx.Tx, id int64, publishDate time.Time) error {
	cmdTag, err := tx.Exec(ctx,
		`UPDATE sessions SET publish_date = $1, updated_at = NOW() WHERE id = $2`,
		publishDate, id)
	if err != nil {
		return mapSessionErr(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// SessionExistsByName checks whether a session name is already taken
func (r *SessionRepository) SessionExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking session existence: %w", err)
	}

	return exists, nil
}
