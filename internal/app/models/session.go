package models

import (
	"time"

	"github.com/SeattleChris/hepcat-sub000/internal/pkg/dates"
)

// Session defines one offering block of weekly classes based on the
// 'sessions' table. Sessions form an implicit chain ordered by KeyDayDate;
// the previous/next relation is a query, not a stored pointer.
type Session struct {
	ID   int64  `json:"id" db:"id" example:"1"`
	Name string `json:"name" db:"name" example:"May_2020"` // Unique lookup name

	// KeyDayDate anchors the session: the date of the first class on the
	// reference weekday.
	KeyDayDate time.Time `json:"keyDayDate" db:"key_day_date"`

	// MaxDayShift is a signed day offset: negative means some weekly class
	// days fall before the key day, positive means after.
	MaxDayShift int `json:"maxDayShift" db:"max_day_shift" example:"-2"`

	NumWeeks  int `json:"numWeeks" db:"num_weeks" example:"5"`
	SkipWeeks int `json:"skipWeeks" db:"skip_weeks" example:"0"`

	// FlipLastDay records that a mid-session skip moved the final class
	// occurrence onto the non-anchor weekday. Meaningless when SkipWeeks is
	// zero and forced false there.
	FlipLastDay bool `json:"flipLastDay" db:"flip_last_day"`

	// BreakWeeks is the deliberate gap inserted after this session before
	// the next one begins.
	BreakWeeks int `json:"breakWeeks" db:"break_weeks" example:"0"`

	PublishDate time.Time  `json:"publishDate" db:"publish_date"`
	ExpireDate  *time.Time `json:"expireDate,omitempty" db:"expire_date"` // Pointer to handle NULL until computed

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// StartDate is the earliest day this session holds any class: the key day,
// pulled back by the shift when class days precede it.
func (s *Session) StartDate() time.Time {
	if s.MaxDayShift < 0 {
		return dates.AddDays(s.KeyDayDate, s.MaxDayShift)
	}
	return s.KeyDayDate
}

// EndDate is the last day this session holds any class. The base is the key
// day of the final week (skip weeks extend the calendar span); the shift is
// applied on top only when the session's last occurrence falls on the
// non-anchor weekday.
func (s *Session) EndDate() time.Time {
	end := dates.AddWeeks(s.KeyDayDate, s.NumWeeks+s.SkipWeeks-1)
	if s.lastOnShiftedDay() {
		end = dates.AddDays(end, s.MaxDayShift)
	}
	return end
}

// lastOnShiftedDay reports whether the final class occurrence lands on the
// shifted (non-anchor) weekday: a negative shift needs the flip to push the
// last class earlier in the week, a positive shift puts it there unless the
// flip pulled it back.
func (s *Session) lastOnShiftedDay() bool {
	return (s.MaxDayShift < 0 && s.FlipLastDay) || (s.MaxDayShift > 0 && !s.FlipLastDay)
}

// ComputedExpireDay derives the content-expiration date from a key day:
// the day after the final class week closes, which is the positive shift (if
// any) plus one day, plus the long offset for normal sessions or the short
// offset for fillers.
func (s *Session) ComputedExpireDay(keyDay time.Time, t Timing) time.Time {
	adj := 1
	if s.MaxDayShift > 0 {
		adj += s.MaxDayShift
	}
	if s.NumWeeks > t.MinWeeks {
		adj += t.LongExpireOffset
	} else {
		adj += t.ShortExpireOffset
	}
	return dates.AddDays(keyDay, adj)
}

// NextDefaultKeyDay is the first anchor weekday free after this session and
// its break weeks, used to default the key day of a session chained after
// this one. The anchor-day track frees one week early when a skip fell on
// the shifted-day track of a negative-shift session.
func (s *Session) NextDefaultKeyDay() time.Time {
	next := dates.AddWeeks(s.KeyDayDate, s.NumWeeks+s.SkipWeeks+s.BreakWeeks)
	if s.SkipWeeks > 0 && s.MaxDayShift < 0 && s.FlipLastDay {
		next = dates.AddWeeks(next, -1)
	}
	return next
}

// Overlaps reports whether the inclusive class-day ranges of two sessions
// intersect.
func (s *Session) Overlaps(other *Session) bool {
	if other == nil {
		return false
	}
	return !s.EndDate().Before(other.StartDate()) && !other.EndDate().Before(s.StartDate())
}
