package dto

import (
	"time"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
)

// CreateSubjectRequest represents a request to create a subject
type CreateSubjectRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100" example:"Lindy Hop"`
	Level   int    `json:"level,omitempty" binding:"omitempty,min=0,max=10" example:"2"`
	Version string `json:"version,omitempty" binding:"omitempty,max=50" example:"A"`
}

// CreateClassOfferRequest represents a request to schedule a class offer
// within a session. ClassDay uses the Monday=0 .. Sunday=6 weekday index.
type CreateClassOfferRequest struct {
	SessionID int64  `json:"sessionId" binding:"required" example:"1"`
	SubjectID int64  `json:"subjectId" binding:"required" example:"1"`
	ClassDay  *int   `json:"classDay" binding:"required,min=0,max=6" example:"3"`
	SkipWeeks *int   `json:"skipWeeks,omitempty" binding:"omitempty,min=0,max=10" example:"0"`
	StartTime string `json:"startTime,omitempty" binding:"omitempty,datetime=15:04" example:"19:00"`
}

// RegisterRequest represents a request to enroll a user in a class offer
type RegisterRequest struct {
	UserID string `json:"userId" binding:"required,uuid" example:"5f8e8c3a-0b0a-4b0e-8b0a-0b0a4b0e8b0a"`
}

// SubjectResponse represents a subject
type SubjectResponse struct {
	ID      int64  `json:"id" example:"1"`
	Name    string `json:"name" example:"Lindy Hop"`
	Level   int    `json:"level,omitempty" example:"2"`
	Version string `json:"version,omitempty" example:"A"`
}

// ClassOfferResponse represents a class offer with its concrete window.
type ClassOfferResponse struct {
	ID        int64  `json:"id" example:"1"`
	SessionID int64  `json:"sessionId" example:"1"`
	SubjectID int64  `json:"subjectId" example:"1"`
	ClassDay  int    `json:"classDay" example:"3"`
	SkipWeeks int    `json:"skipWeeks" example:"0"`
	StartTime string `json:"startTime,omitempty" example:"19:00"`

	// Derived from the owning session; empty when it is not loaded.
	StartDate *string `json:"startDate,omitempty" example:"2026-04-30"`
	EndDate   *string `json:"endDate,omitempty" example:"2026-05-28"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OfferingWindowResponse represents the first and last meeting dates of a
// class offer.
type OfferingWindowResponse struct {
	ClassOfferID int64  `json:"classOfferId" example:"1"`
	StartDate    string `json:"startDate" example:"2026-04-30"`
	EndDate      string `json:"endDate" example:"2026-05-28"`
}

// RegistrationResponse represents a user's enrollment in a class offer
type RegistrationResponse struct {
	ID           int64     `json:"id" example:"1"`
	UserID       string    `json:"userId" example:"5f8e8c3a-0b0a-4b0e-8b0a-0b0a4b0e8b0a"`
	ClassOfferID int64     `json:"classOfferId" example:"1"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewSubjectResponse builds the response for one subject.
func NewSubjectResponse(s *models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:      s.ID,
		Name:    s.Name,
		Level:   s.Level,
		Version: s.Version,
	}
}

// NewClassOfferResponse builds the response for one class offer, including
// the derived window when the session relation is loaded.
func NewClassOfferResponse(o *models.ClassOffer) ClassOfferResponse {
	resp := ClassOfferResponse{
		ID:        o.ID,
		SessionID: o.SessionID,
		SubjectID: o.SubjectID,
		ClassDay:  int(o.ClassDay),
		SkipWeeks: o.SkipWeeks,
		StartTime: o.StartTime,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.Session != nil && !o.Session.KeyDayDate.IsZero() {
		start := FormatDate(o.StartDate(o.Session))
		end := FormatDate(o.EndDate(o.Session))
		resp.StartDate = &start
		resp.EndDate = &end
	}
	return resp
}

// NewClassOfferListResponse builds responses for a list of class offers.
func NewClassOfferListResponse(offers []*models.ClassOffer) []ClassOfferResponse {
	out := make([]ClassOfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, NewClassOfferResponse(o))
	}
	return out
}

// NewRegistrationResponse builds the response for one registration.
func NewRegistrationResponse(r *models.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:           r.ID,
		UserID:       r.UserID.String(),
		ClassOfferID: r.ClassOfferID,
		CreatedAt:    r.CreatedAt,
	}
}
