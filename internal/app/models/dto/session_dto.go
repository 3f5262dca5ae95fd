package dto

import (
	"time"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
)

// DateLayout is the wire format for all civil dates.
const DateLayout = "2006-01-02"

// ParseDate parses a wire-format date into a civil date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseDatePtr parses an optional wire-format date.
func ParseDatePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders a civil date in wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDatePtr renders an optional civil date in wire format.
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// CreateSessionRequest represents a request to create a session. Every field
// except the name is optional; absent fields default from the session chain.
type CreateSessionRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100" example:"May_2026"`
	KeyDayDate  *string `json:"keyDayDate,omitempty" binding:"omitempty,datetime=2006-01-02" example:"2026-04-30"`
	MaxDayShift *int    `json:"maxDayShift,omitempty" binding:"omitempty,min=-6,max=6" example:"-2"`
	NumWeeks    *int    `json:"numWeeks,omitempty" binding:"omitempty,min=1,max=52" example:"5"`
	SkipWeeks   *int    `json:"skipWeeks,omitempty" binding:"omitempty,min=0,max=10" example:"0"`
	FlipLastDay *bool   `json:"flipLastDay,omitempty"`
	BreakWeeks  *int    `json:"breakWeeks,omitempty" binding:"omitempty,min=0,max=52" example:"0"`
	PublishDate *string `json:"publishDate,omitempty" binding:"omitempty,datetime=2006-01-02" example:"2026-04-03"`
	ExpireDate  *string `json:"expireDate,omitempty" binding:"omitempty,datetime=2006-01-02" example:"2026-05-08"`
}

// UpdateSessionRequest represents a partial session update; absent fields
// keep their stored values.
type UpdateSessionRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	KeyDayDate  *string `json:"keyDayDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	MaxDayShift *int    `json:"maxDayShift,omitempty" binding:"omitempty,min=-6,max=6"`
	NumWeeks    *int    `json:"numWeeks,omitempty" binding:"omitempty,min=1,max=52"`
	SkipWeeks   *int    `json:"skipWeeks,omitempty" binding:"omitempty,min=0,max=10"`
	FlipLastDay *bool   `json:"flipLastDay,omitempty"`
	BreakWeeks  *int    `json:"breakWeeks,omitempty" binding:"omitempty,min=0,max=52"`
	PublishDate *string `json:"publishDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	ExpireDate  *string `json:"expireDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// SessionResponse represents a session with its derived dates.
type SessionResponse struct {
	ID          int64   `json:"id" example:"1"`
	Name        string  `json:"name" example:"May_2026"`
	KeyDayDate  string  `json:"keyDayDate" example:"2026-04-30"`
	MaxDayShift int     `json:"maxDayShift" example:"-2"`
	NumWeeks    int     `json:"numWeeks" example:"5"`
	SkipWeeks   int     `json:"skipWeeks" example:"0"`
	FlipLastDay bool    `json:"flipLastDay"`
	BreakWeeks  int     `json:"breakWeeks" example:"0"`
	PublishDate string  `json:"publishDate" example:"2026-04-03"`
	ExpireDate  *string `json:"expireDate,omitempty" example:"2026-05-08"`
	StartDate   string  `json:"startDate" example:"2026-04-28"`
	EndDate     string  `json:"endDate" example:"2026-05-28"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSessionResponse builds the response for one session.
func NewSessionResponse(s *models.Session) SessionResponse {
	return SessionResponse{
		ID:          s.ID,
		Name:        s.Name,
		KeyDayDate:  FormatDate(s.KeyDayDate),
		MaxDayShift: s.MaxDayShift,
		NumWeeks:    s.NumWeeks,
		SkipWeeks:   s.SkipWeeks,
		FlipLastDay: s.FlipLastDay,
		BreakWeeks:  s.BreakWeeks,
		PublishDate: FormatDate(s.PublishDate),
		ExpireDate:  FormatDatePtr(s.ExpireDate),
		StartDate:   FormatDate(s.StartDate()),
		EndDate:     FormatDate(s.EndDate()),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// NewSessionListResponse builds responses for a list of sessions.
func NewSessionListResponse(sessions []*models.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewSessionResponse(s))
	}
	return out
}
