package models

import (
	"time"

	"github.com/SeattleChris/hepcat-sub000/internal/pkg/dates"
)

// DayOfWeek is the canonical weekday index for the whole module: Monday=0
// through Sunday=6. External inputs using any other origin must be converted
// at the boundary.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Valid reports whether the value is inside the weekday range.
func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

// ClassOffer defines one scheduled meeting-series of a subject within a
// session, based on the 'class_offers' table.
type ClassOffer struct {
	ID        int64 `json:"id" db:"id"`
	SessionID int64 `json:"sessionId" db:"session_id"`
	SubjectID int64 `json:"subjectId" db:"subject_id"`

	ClassDay DayOfWeek `json:"classDay" db:"class_day" example:"3"`

	// SkipWeeks is this offer's own override, not the session's.
	SkipWeeks int `json:"skipWeeks" db:"skip_weeks" example:"0"`

	StartTime string `json:"startTime" db:"start_time" example:"19:00"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Session *Session `json:"session,omitempty"` // Relation, no db tag
	Subject *Subject `json:"subject,omitempty"` // Relation, no db tag
}

// StartDate is the first meeting of this offer: the occurrence of ClassDay
// nearest the session key day inside the window the session's shift allows.
func (o *ClassOffer) StartDate(s *Session) time.Time {
	dif := int(o.ClassDay) - dates.DayIndex(s.KeyDayDate)
	if dif != 0 {
		if s.MaxDayShift < 0 {
			if dif > 0 {
				dif -= 7
			}
			if dif < s.MaxDayShift {
				dif += 7
			}
		} else {
			if dif < 0 {
				dif += 7
			}
			if dif > s.MaxDayShift {
				dif -= 7
			}
		}
	}
	return dates.AddDays(s.KeyDayDate, dif)
}

// EndDate is the final meeting of this offer, extended by the offer's own
// skip weeks rather than the session's.
func (o *ClassOffer) EndDate(s *Session) time.Time {
	return dates.AddWeeks(o.StartDate(s), s.NumWeeks+o.SkipWeeks-1)
}
