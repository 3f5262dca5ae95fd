package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/dates"
)

var testTiming = models.Timing{
	MinWeeks:             3,
	MaxWeeks:             5,
	DefaultWeeks:         5,
	DefaultMaxDayShift:   6,
	LongExpireOffset:     7,
	ShortExpireOffset:    1,
	ResolveMaxIterations: 1000,
}

// memChain is an in-memory SessionChain for exercising the lifecycle steps
// without a database.
type memChain struct {
	sessions []*models.Session
	nextID   int64
}

func (c *memChain) add(s *models.Session) *models.Session {
	if s.ID == 0 {
		c.nextID++
		s.ID = c.nextID
	} else if s.ID > c.nextID {
		c.nextID = s.ID
	}
	c.sessions = append(c.sessions, s)
	return s
}

func (c *memChain) byID(id int64) *models.Session {
	for _, s := range c.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (c *memChain) LastBefore(_ context.Context, before *time.Time, excludeID int64) (*models.Session, error) {
	var best *models.Session
	for _, s := range c.sessions {
		if s.ID == excludeID {
			continue
		}
		if before != nil && !s.KeyDayDate.Before(*before) {
			continue
		}
		if best == nil || s.KeyDayDate.After(best.KeyDayDate) ||
			(s.KeyDayDate.Equal(best.KeyDayDate) && s.ID > best.ID) {
			best = s
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (c *memChain) NextAfter(_ context.Context, after time.Time, minWeeks int, excludeID int64) (*models.Session, error) {
	var best *models.Session
	for _, s := range c.sessions {
		if s.ID == excludeID || !s.KeyDayDate.After(after) || s.NumWeeks <= minWeeks {
			continue
		}
		if best == nil || s.KeyDayDate.Before(best.KeyDayDate) {
			best = s
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (c *memChain) Insert(_ context.Context, s *models.Session) error {
	c.nextID++
	s.ID = c.nextID
	cp := *s
	c.sessions = append(c.sessions, &cp)
	return nil
}

func (c *memChain) Update(_ context.Context, s *models.Session) error {
	stored := c.byID(s.ID)
	if stored == nil {
		return apperrors.ErrSessionNotFound
	}
	*stored = *s
	return nil
}

func (c *memChain) SetBreakWeeks(_ context.Context, id int64, breakWeeks int) error {
	stored := c.byID(id)
	if stored == nil {
		return apperrors.ErrSessionNotFound
	}
	stored.BreakWeeks = breakWeeks
	return nil
}

func (c *memChain) SetPublishDate(_ context.Context, id int64, publishDate time.Time) error {
	stored := c.byID(id)
	if stored == nil {
		return apperrors.ErrSessionNotFound
	}
	stored.PublishDate = publishDate
	return nil
}

func newTestSessionService(timing models.Timing) *SessionService {
	svc := NewSessionService(nil, nil, timing, zerolog.Nop())
	svc.now = func() time.Time { return dates.New(2020, time.May, 15) }
	return svc
}

// Fixture: Thursday 2020-04-30 anchor, Tuesday classes two days early,
// expire already computed.
func maySession() *models.Session {
	expire := dates.New(2020, time.May, 8)
	return &models.Session{
		ID:          1,
		Name:        "May_2020",
		KeyDayDate:  dates.New(2020, time.April, 30),
		MaxDayShift: -2,
		NumWeeks:    5,
		PublishDate: dates.New(2020, time.April, 3),
		ExpireDate:  &expire,
	}
}

func TestDefaultDateChainsFromFinalSession(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}
	chain.add(maySession())

	key, err := svc.DefaultDate(context.Background(), chain, FieldKeyDayDate, nil)
	if err != nil {
		t.Fatalf("DefaultDate(key_day_date) error: %v", err)
	}
	// 5 weeks after the previous anchor day.
	if want := dates.New(2020, time.June, 4); !key.Equal(want) {
		t.Errorf("default key day = %v, want %v", key, want)
	}

	publish, err := svc.DefaultDate(context.Background(), chain, FieldPublishDate, nil)
	if err != nil {
		t.Fatalf("DefaultDate(publish_date) error: %v", err)
	}
	if want := dates.New(2020, time.May, 8); !publish.Equal(want) {
		t.Errorf("default publish = %v, want %v", publish, want)
	}
}

func TestDefaultDateEmptyChainIsToday(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}

	for _, field := range []string{FieldKeyDayDate, FieldPublishDate} {
		got, err := svc.DefaultDate(context.Background(), chain, field, nil)
		if err != nil {
			t.Fatalf("DefaultDate(%s) error: %v", field, err)
		}
		if want := dates.New(2020, time.May, 15); !got.Equal(want) {
			t.Errorf("DefaultDate(%s) = %v, want today %v", field, got, want)
		}
	}
}

func TestDefaultDateWalksPastFiller(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}
	anchor := chain.add(maySession())
	// One-week filler block after the real session.
	chain.add(&models.Session{
		ID:         2,
		Name:       "filler",
		KeyDayDate: dates.New(2020, time.June, 4),
		NumWeeks:   1,
	})

	key, err := svc.DefaultDate(context.Background(), chain, FieldKeyDayDate, nil)
	if err != nil {
		t.Fatalf("DefaultDate error: %v", err)
	}
	if want := anchor.NextDefaultKeyDay(); !key.Equal(want) {
		t.Errorf("default key day = %v, want %v (resolved past filler)", key, want)
	}
}

func TestDefaultDateRejectsUnknownField(t *testing.T) {
	svc := newTestSessionService(testTiming)
	_, err := svc.DefaultDate(context.Background(), &memChain{}, "end_date", nil)
	if !errors.Is(err, apperrors.ErrInvalidField) {
		t.Errorf("error = %v, want ErrInvalidField", err)
	}
}

func TestCleanNoOverlapLeavesSessionAlone(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}
	chain.add(maySession())

	s := &models.Session{
		Name:        "June_2020",
		KeyDayDate:  dates.New(2020, time.June, 4),
		MaxDayShift: -2,
		NumWeeks:    5,
	}
	if err := svc.clean(context.Background(), chain, s); err != nil {
		t.Fatalf("clean error: %v", err)
	}
	if want := dates.New(2020, time.June, 4); !s.KeyDayDate.Equal(want) {
		t.Errorf("key day = %v, want unchanged %v", s.KeyDayDate, want)
	}
	if s.MaxDayShift != -2 {
		t.Errorf("shift = %d, want unchanged -2", s.MaxDayShift)
	}
}

func TestCleanResolvesByShiftBump(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}
	prev := chain.add(maySession()) // ends 2020-05-28

	// Saturday key two days after the previous end; the Thursday classes
	// land on the previous session's last day.
	s := &models.Session{
		Name:        "June_2020",
		KeyDayDate:  dates.New(2020, time.May, 30),
		MaxDayShift: -2,
		NumWeeks:    5,
	}
	if err := svc.clean(context.Background(), chain, s); err != nil {
		t.Fatalf("clean error: %v", err)
	}
	if s.MaxDayShift != 5 {
		t.Errorf("shift = %d, want 5 (bumped one week forward)", s.MaxDayShift)
	}
	if want := dates.New(2020, time.May, 30); !s.KeyDayDate.Equal(want) {
		t.Errorf("key day = %v, want unchanged %v", s.KeyDayDate, want)
	}
	if got := chain.byID(prev.ID).BreakWeeks; got != 0 {
		t.Errorf("previous break weeks = %d, want untouched 0", got)
	}
	if s.Overlaps(chain.byID(prev.ID)) {
		t.Error("sessions still overlap after clean")
	}
}

func TestCleanShiftBumpClearsFlip(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}
	chain.add(maySession())

	s := &models.Session{
		Name:        "June_2020",
		KeyDayDate:  dates.New(2020, time.May, 30),
		MaxDayShift: -2,
		NumWeeks:    5,
		SkipWeeks:   1,
		FlipLastDay: true,
	}
	if err := svc.clean(context.Background(), chain, s); err != nil {
		t.Fatalf("clean error: %v", err)
	}
	if s.FlipLastDay {
		t.Error("flip still set after the shift changed sign")
	}
}

func TestCleanNormalizesFlipWithoutSkip(t *testing.T) {
	svc := newTestSessionService(testTiming)
	s := &models.Session{
		Name:        "solo",
		KeyDayDate:  dates.New(2020, time.June, 4),
		NumWeeks:    5,
		FlipLastDay: true,
	}
	if err := svc.clean(context.Background(), &memChain{}, s); err != nil {
		t.Fatalf("clean error: %v", err)
	}
	if s.FlipLastDay {
		t.Error("flip should be cleared when skip_weeks is zero")
	}
}

func TestCleanPushesLaterAndAddsBreakWeek(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}
	prev := chain.add(maySession()) // ends 2020-05-28

	// Same-day collision with no negative shift to fold: the session slides
	// a week and the previous session absorbs the gap.
	s := &models.Session{
		Name:       "June_2020",
		KeyDayDate: dates.New(2020, time.May, 28),
		NumWeeks:   5,
	}
	if err := svc.clean(context.Background(), chain, s); err != nil {
		t.Fatalf("clean error: %v", err)
	}
	if want := dates.New(2020, time.June, 4); !s.KeyDayDate.Equal(want) {
		t.Errorf("key day = %v, want pushed to %v", s.KeyDayDate, want)
	}
	if got := chain.byID(prev.ID).BreakWeeks; got != 1 {
		t.Errorf("previous break weeks = %d, want 1", got)
	}
	if s.Overlaps(chain.byID(prev.ID)) {
		t.Error("sessions still overlap after clean")
	}
}

func TestCleanRechainsFromInterveningSession(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}
	chain.add(maySession())
	laterExpire := dates.New(2020, time.May, 15)
	later := chain.add(&models.Session{
		ID:         2,
		Name:       "Late_May_2020",
		KeyDayDate: dates.New(2020, time.May, 7),
		NumWeeks:   5,
		ExpireDate: &laterExpire,
	})

	// Collides with May_2020 first; pushing a week lands it past the later
	// session's key day, so it re-chains from that session instead.
	s := &models.Session{
		Name:       "June_2020",
		KeyDayDate: dates.New(2020, time.May, 1),
		NumWeeks:   5,
	}
	if err := svc.clean(context.Background(), chain, s); err != nil {
		t.Fatalf("clean error: %v", err)
	}
	if want := later.NextDefaultKeyDay(); !s.KeyDayDate.Equal(want) {
		t.Errorf("key day = %v, want re-chained %v", s.KeyDayDate, want)
	}
	if !s.PublishDate.Equal(laterExpire) {
		t.Errorf("publish = %v, want new previous expire %v", s.PublishDate, laterExpire)
	}
	if s.ExpireDate == nil {
		t.Fatal("expire not recomputed on re-chain")
	}
	if want := s.ComputedExpireDay(s.KeyDayDate, testTiming); !s.ExpireDate.Equal(want) {
		t.Errorf("expire = %v, want %v", *s.ExpireDate, want)
	}
}

func TestCleanIterationCap(t *testing.T) {
	timing := testTiming
	timing.ResolveMaxIterations = 3
	svc := newTestSessionService(timing)

	chain := &memChain{}
	chain.add(&models.Session{
		ID:         1,
		Name:       "endless",
		KeyDayDate: dates.New(2020, time.January, 2),
		NumWeeks:   1000,
	})

	s := &models.Session{
		Name:       "doomed",
		KeyDayDate: dates.New(2020, time.May, 1),
		NumWeeks:   5,
	}
	err := svc.clean(context.Background(), chain, s)
	if !errors.Is(err, apperrors.ErrSchedulingConflict) {
		t.Errorf("error = %v, want ErrSchedulingConflict", err)
	}
}

func TestPersistComputesExpireAndPropagates(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}
	next := chain.add(&models.Session{
		ID:          2,
		Name:        "June_2020",
		KeyDayDate:  dates.New(2020, time.June, 4),
		NumWeeks:    5,
		PublishDate: dates.New(2020, time.January, 1),
	})

	s := maySession()
	s.ID = 0
	s.ExpireDate = nil
	if err := svc.persist(context.Background(), chain, s, true); err != nil {
		t.Fatalf("persist error: %v", err)
	}

	if s.ExpireDate == nil {
		t.Fatal("expire not computed")
	}
	if want := dates.New(2020, time.May, 8); !s.ExpireDate.Equal(want) {
		t.Errorf("expire = %v, want %v", *s.ExpireDate, want)
	}
	if got := chain.byID(next.ID).PublishDate; !got.Equal(*s.ExpireDate) {
		t.Errorf("next publish = %v, want propagated %v", got, *s.ExpireDate)
	}
	if s.ID == 0 {
		t.Error("session not inserted")
	}
}

func TestPersistSkipsFillerWhenPropagating(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}
	filler := chain.add(&models.Session{
		ID:          2,
		Name:        "filler",
		KeyDayDate:  dates.New(2020, time.June, 4),
		NumWeeks:    1,
		PublishDate: dates.New(2020, time.January, 1),
	})
	real := chain.add(&models.Session{
		ID:          3,
		Name:        "July_2020",
		KeyDayDate:  dates.New(2020, time.June, 11),
		NumWeeks:    5,
		PublishDate: dates.New(2020, time.January, 1),
	})

	s := maySession()
	s.ID = 0
	if err := svc.persist(context.Background(), chain, s, true); err != nil {
		t.Fatalf("persist error: %v", err)
	}

	if got := chain.byID(filler.ID).PublishDate; !got.Equal(dates.New(2020, time.January, 1)) {
		t.Errorf("filler publish = %v, want untouched", got)
	}
	if got := chain.byID(real.ID).PublishDate; !got.Equal(*s.ExpireDate) {
		t.Errorf("next real session publish = %v, want %v", got, *s.ExpireDate)
	}
}

func TestPersistKeepsStoredExpireWhenKeyDayMoves(t *testing.T) {
	svc := newTestSessionService(testTiming)
	chain := &memChain{}

	s := chain.add(maySession())
	storedExpire := *s.ExpireDate

	// Move the anchor two weeks out without clearing the expire date.
	s.KeyDayDate = dates.AddWeeks(s.KeyDayDate, 2)
	if err := svc.clean(context.Background(), chain, s); err != nil {
		t.Fatalf("clean error: %v", err)
	}
	if err := svc.persist(context.Background(), chain, s, false); err != nil {
		t.Fatalf("persist error: %v", err)
	}

	if s.ExpireDate == nil || !s.ExpireDate.Equal(storedExpire) {
		t.Errorf("expire = %v, want stored %v kept as-is", s.ExpireDate, storedExpire)
	}
	if recomputed := s.ComputedExpireDay(s.KeyDayDate, testTiming); s.ExpireDate.Equal(recomputed) {
		t.Error("expire was recomputed from the moved key day")
	}
}
