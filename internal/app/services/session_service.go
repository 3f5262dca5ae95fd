package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/app/repositories"
	"github.com/SeattleChris/hepcat-sub000/internal/db"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/dates"
)

// Field names accepted by DefaultDate.
const (
	FieldKeyDayDate  = "key_day_date"
	FieldPublishDate = "publish_date"
)

// SessionChain is the slice of persistence the lifecycle controller touches:
// neighbor lookups and the writes to this session and the neighbors it
// mutates. Production wraps the session repository in one transaction; tests
// supply an in-memory chain.
type SessionChain interface {
	LastBefore(ctx context.Context, before *time.Time, excludeID int64) (*models.Session, error)
	NextAfter(ctx context.Context, after time.Time, minWeeks int, excludeID int64) (*models.Session, error)
	Insert(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	SetBreakWeeks(ctx context.Context, id int64, breakWeeks int) error
	SetPublishDate(ctx context.Context, id int64, publishDate time.Time) error
}

// SessionPatch carries a partial session write; nil fields keep their
// current (or defaulted) value.
type SessionPatch struct {
	Name        *string
	KeyDayDate  *time.Time
	MaxDayShift *int
	NumWeeks    *int
	SkipWeeks   *int
	FlipLastDay *bool
	BreakWeeks  *int
	PublishDate *time.Time
	ExpireDate  *time.Time
}

// TouchesDates reports whether the patch changes any field the date
// derivations depend on. Updates that don't qualify take the write-through
// fast path.
func (p *SessionPatch) TouchesDates() bool {
	return p.KeyDayDate != nil || p.MaxDayShift != nil || p.NumWeeks != nil ||
		p.SkipWeeks != nil || p.FlipLastDay != nil || p.BreakWeeks != nil ||
		p.ExpireDate != nil
}

func (p *SessionPatch) apply(s *models.Session) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.KeyDayDate != nil {
		s.KeyDayDate = dates.Civil(*p.KeyDayDate)
	}
	if p.MaxDayShift != nil {
		s.MaxDayShift = *p.MaxDayShift
	}
	if p.NumWeeks != nil {
		s.NumWeeks = *p.NumWeeks
	}
	if p.SkipWeeks != nil {
		s.SkipWeeks = *p.SkipWeeks
	}
	if p.FlipLastDay != nil {
		s.FlipLastDay = *p.FlipLastDay
	}
	if p.BreakWeeks != nil {
		s.BreakWeeks = *p.BreakWeeks
	}
	if p.PublishDate != nil {
		s.PublishDate = dates.Civil(*p.PublishDate)
	}
	if p.ExpireDate != nil {
		expire := dates.Civil(*p.ExpireDate)
		s.ExpireDate = &expire
	}
}

// SessionService owns the session lifecycle: chain defaults, the
// overlap-resolution clean step, and the save-time expire computation with
// forward publish-date propagation. Every save runs inside one transaction
// that locks the neighboring rows it reads and writes, so chained mutations
// are all-or-nothing.
type SessionService struct {
	sessionRepo *repositories.SessionRepository
	database    *db.PostgresDB
	timing      models.Timing
	logger      zerolog.Logger

	// now is swapped in tests to pin "today".
	now func() time.Time
}

// NewSessionService creates a new session service instance
func NewSessionService(sessionRepo *repositories.SessionRepository, database *db.PostgresDB, timing models.Timing, logger zerolog.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		database:    database,
		timing:      timing,
		logger:      logger,
		now:         dates.Today,
	}
}

// GetSessionByName retrieves a session by its unique name
func (s *SessionService) GetSessionByName(ctx context.Context, name string) (*models.Session, error) {
	return s.sessionRepo.GetByName(ctx, name)
}

// ListSessions retrieves all sessions in chain order
func (s *SessionService) ListSessions(ctx context.Context) ([]*models.Session, error) {
	return s.sessionRepo.GetAll(ctx)
}

// CreateSession builds a session from the patch, defaulting absent fields
// from the chain, then runs the full clean+save pipeline.
func (s *SessionService) CreateSession(ctx context.Context, patch SessionPatch) (*models.Session, error) {
	if patch.Name == nil || *patch.Name == "" {
		return nil, fmt.Errorf("%w: session name is required", apperrors.ErrValidationFailed)
	}

	session := &models.Session{
		NumWeeks:    s.timing.DefaultWeeks,
		MaxDayShift: s.timing.DefaultMaxDayShift,
	}

	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		chain := &txChain{repo: s.sessionRepo, tx: tx}

		if patch.KeyDayDate == nil {
			keyDay, err := s.DefaultDate(ctx, chain, FieldKeyDayDate, nil)
			if err != nil {
				return err
			}
			patch.KeyDayDate = &keyDay
		}
		if patch.PublishDate == nil {
			publish, err := s.DefaultDate(ctx, chain, FieldPublishDate, nil)
			if err != nil {
				return err
			}
			patch.PublishDate = &publish
		}
		patch.apply(session)

		if err := s.validateSession(session); err != nil {
			return err
		}
		if err := s.clean(ctx, chain, session); err != nil {
			return err
		}
		return s.persist(ctx, chain, session, true)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// UpdateSession applies a partial update to an existing session. Updates
// that touch no date-bearing field on a session whose expire date is already
// computed skip the derivation pipeline and write through directly.
//
// A stored expire date is never recomputed, even when key_day_date moves:
// the pipeline derives an expire date only while none is set, so a shifted
// session keeps the expire date it was saved with.
func (s *SessionService) UpdateSession(ctx context.Context, name string, patch SessionPatch) (*models.Session, error) {
	session, err := s.sessionRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if !patch.TouchesDates() && session.ExpireDate != nil {
		patch.apply(session)
		err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return s.sessionRepo.UpdateTx(ctx, tx, session)
		})
		if err != nil {
			return nil, err
		}
		return session, nil
	}

	patch.apply(session)
	if err := s.validateSession(session); err != nil {
		return nil, err
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		chain := &txChain{repo: s.sessionRepo, tx: tx}
		if err := s.clean(ctx, chain, session); err != nil {
			return err
		}
		return s.persist(ctx, chain, session, false)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) validateSession(session *models.Session) error {
	if session.NumWeeks < 1 {
		return fmt.Errorf("%w: num_weeks must be at least 1", apperrors.ErrValidationFailed)
	}
	if session.SkipWeeks < 0 || session.BreakWeeks < 0 {
		return fmt.Errorf("%w: skip_weeks and break_weeks cannot be negative", apperrors.ErrValidationFailed)
	}
	if session.KeyDayDate.IsZero() {
		return fmt.Errorf("%w: key_day_date is required", apperrors.ErrValidationFailed)
	}
	if session.ExpireDate != nil && session.ExpireDate.Before(session.PublishDate) {
		return fmt.Errorf("%w: expire_date cannot precede publish_date", apperrors.ErrValidationFailed)
	}
	return nil
}

// DefaultDate computes a chain default for key_day_date or publish_date by
// resolving the previous session (walking past filler blocks), then reading
// the follow-on date off the resolved session. With an empty chain both
// fields default to today.
func (s *SessionService) DefaultDate(ctx context.Context, chain SessionChain, field string, since *time.Time) (time.Time, error) {
	if field != FieldKeyDayDate && field != FieldPublishDate {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidField, field)
	}

	final, err := s.resolvePrev(ctx, chain, since)
	if err != nil {
		return time.Time{}, err
	}
	if final == nil {
		return dates.Civil(s.now()), nil
	}

	if field == FieldKeyDayDate {
		return final.NextDefaultKeyDay(), nil
	}
	if final.ExpireDate != nil {
		return *final.ExpireDate, nil
	}
	return final.ComputedExpireDay(final.KeyDayDate, s.timing), nil
}

// resolvePrev finds the last session before the given day, walking further
// back while it lands on filler blocks shorter than the minimum week count.
func (s *SessionService) resolvePrev(ctx context.Context, chain SessionChain, before *time.Time) (*models.Session, error) {
	cur, err := chain.LastBefore(ctx, before, 0)
	if err != nil {
		return nil, err
	}
	for cur != nil && cur.NumWeeks < s.timing.MinWeeks {
		prev, err := chain.LastBefore(ctx, &cur.KeyDayDate, cur.ID)
		if err != nil {
			return nil, err
		}
		if prev == nil {
			break
		}
		cur = prev
	}
	return cur, nil
}

// clean normalizes the session and resolves any overlap with the previous
// session by mutation: either this session's shift jumps a week forward, or
// the whole session slides a week later and the previous session absorbs the
// gap as a break week. The loop is bounded; exhausting the bound means the
// configuration cannot be reconciled automatically.
func (s *SessionService) clean(ctx context.Context, chain SessionChain, session *models.Session) error {
	// A flip without a skip is meaningless.
	if session.SkipWeeks == 0 {
		session.FlipLastDay = false
	}

	earlyDay := session.StartDate()
	prev, err := chain.LastBefore(ctx, &session.KeyDayDate, session.ID)
	if err != nil {
		return err
	}

	for iter := 0; prev != nil && !prev.EndDate().Before(earlyDay); iter++ {
		if iter >= s.timing.ResolveMaxIterations {
			return fmt.Errorf("%w: session %q still collides after %d adjustments",
				apperrors.ErrSchedulingConflict, session.Name, iter)
		}

		if session.MaxDayShift < 0 && dates.AddDays(earlyDay, 7).After(prev.EndDate()) {
			// Folding the early class days forward a week clears the
			// previous session without sliding the key day.
			session.MaxDayShift += 7
			if session.SkipWeeks > 0 && session.FlipLastDay {
				// The skip was on the non-anchor day; realign the flag with
				// the sign change.
				session.FlipLastDay = false
			}
			// When the skip was on the anchor day the flag is left as-is;
			// the right answer here needs a domain-owner decision.
			earlyDay = session.StartDate()
			continue
		}

		// Push the whole session one week later and account for the gap.
		session.KeyDayDate = dates.AddDays(session.KeyDayDate, 7)
		earlyDay = session.StartDate()

		boundary := dates.AddDays(session.KeyDayDate, 1)
		newPrev, err := chain.LastBefore(ctx, &boundary, session.ID)
		if err != nil {
			return err
		}

		switch {
		case newPrev == nil:
			prev = nil

		case newPrev.ID == prev.ID:
			// Same neighbor: the inserted week becomes its break week.
			prev.BreakWeeks++
			if err := chain.SetBreakWeeks(ctx, prev.ID, prev.BreakWeeks); err != nil {
				return err
			}

		default:
			// Slid past a different session; re-chain from it instead.
			resolved := newPrev
			for resolved.NumWeeks < s.timing.MinWeeks {
				earlier, err := chain.LastBefore(ctx, &resolved.KeyDayDate, resolved.ID)
				if err != nil {
					return err
				}
				if earlier == nil {
					break
				}
				resolved = earlier
			}
			session.KeyDayDate = resolved.NextDefaultKeyDay()
			if resolved.ExpireDate != nil {
				session.PublishDate = *resolved.ExpireDate
			} else {
				session.PublishDate = resolved.ComputedExpireDay(resolved.KeyDayDate, s.timing)
			}
			expire := session.ComputedExpireDay(session.KeyDayDate, s.timing)
			session.ExpireDate = &expire
			earlyDay = session.StartDate()
			prev = newPrev
		}
	}

	return nil
}

// persist computes the expire date when still absent, propagates it onto the
// next session's publish date, and writes this session, all inside the
// caller's transaction.
func (s *SessionService) persist(ctx context.Context, chain SessionChain, session *models.Session, isNew bool) error {
	if session.ExpireDate == nil {
		expire := session.ComputedExpireDay(session.KeyDayDate, s.timing)
		session.ExpireDate = &expire
	}

	next, err := chain.NextAfter(ctx, session.KeyDayDate, s.timing.MinWeeks, session.ID)
	if err != nil {
		return err
	}
	if next != nil && !next.PublishDate.Equal(*session.ExpireDate) {
		s.logger.Debug().
			Str("session", session.Name).
			Str("next", next.Name).
			Time("publishDate", *session.ExpireDate).
			Msg("propagating expire date to next session")
		if err := chain.SetPublishDate(ctx, next.ID, *session.ExpireDate); err != nil {
			return err
		}
	}

	if isNew {
		return chain.Insert(ctx, session)
	}
	return chain.Update(ctx, session)
}

// txChain adapts the session repository to the SessionChain interface within
// one transaction, locking every neighbor row it hands out.
type txChain struct {
	repo *repositories.SessionRepository
	tx   pgx.Tx
}

func (c *txChain) LastBefore(ctx context.Context, before *time.Time, excludeID int64) (*models.Session, error) {
	return c.repo.LastBeforeTx(ctx, c.tx, before, excludeID)
}

func (c *txChain) NextAfter(ctx context.Context, after time.Time, minWeeks int, excludeID int64) (*models.Session, error) {
	return c.repo.NextAfterTx(ctx, c.tx, after, minWeeks, excludeID)
}

func (c *txChain) Insert(ctx context.Context, session *models.Session) error {
	return c.repo.CreateTx(ctx, c.tx, session)
}

func (c *txChain) Update(ctx context.Context, session *models.Session) error {
	return c.repo.UpdateTx(ctx, c.tx, session)
}

func (c *txChain) SetBreakWeeks(ctx context.Context, id int64, breakWeeks int) error {
	return c.repo.UpdateBreakWeeksTx(ctx, c.tx, id, breakWeeks)
}

func (c *txChain) SetPublishDate(ctx context.Context, id int64, publishDate time.Time) error {
	return c.repo.UpdatePublishDateTx(ctx, c.tx, id, publishDate)
}
