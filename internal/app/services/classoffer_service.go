package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/app/repositories"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
)

// ClassOfferService manages subjects, the class offers scheduled within
// sessions, and student registrations.
type ClassOfferService struct {
	offerRepo   *repositories.ClassOfferRepository
	subjectRepo *repositories.SubjectRepository
	sessionRepo *repositories.SessionRepository
	userRepo    *repositories.UserRepository
	logger      zerolog.Logger
}

// NewClassOfferService creates a new class offer service instance
func NewClassOfferService(offerRepo *repositories.ClassOfferRepository, subjectRepo *repositories.SubjectRepository, sessionRepo *repositories.SessionRepository, userRepo *repositories.UserRepository, logger zerolog.Logger) *ClassOfferService {
	return &ClassOfferService{
		offerRepo:   offerRepo,
		subjectRepo: subjectRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// CreateSubject validates and stores a new subject.
func (s *ClassOfferService) CreateSubject(ctx context.Context, subject *models.Subject) error {
	if subject.Name == "" {
		return fmt.Errorf("%w: subject name is required", apperrors.ErrValidationFailed)
	}
	return s.subjectRepo.Create(ctx, subject)
}

// GetSubject retrieves a subject by id.
func (s *ClassOfferService) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	return s.subjectRepo.GetByID(ctx, id)
}

// CreateClassOffer validates the offer against its session and subject and
// stores it.
func (s *ClassOfferService) CreateClassOffer(ctx context.Context, offer *models.ClassOffer) error {
	if !offer.ClassDay.Valid() {
		return fmt.Errorf("%w: class_day %d outside Monday..Sunday", apperrors.ErrValidationFailed, offer.ClassDay)
	}
	if offer.SkipWeeks < 0 {
		return fmt.Errorf("%w: skip_weeks cannot be negative", apperrors.ErrValidationFailed)
	}
	if _, err := s.sessionRepo.GetByID(ctx, offer.SessionID); err != nil {
		return err
	}
	if _, err := s.subjectRepo.GetByID(ctx, offer.SubjectID); err != nil {
		return err
	}
	return s.offerRepo.Create(ctx, offer)
}

// GetClassOffer retrieves a class offer with its session loaded.
func (s *ClassOfferService) GetClassOffer(ctx context.Context, id int64) (*models.ClassOffer, error) {
	return s.offerRepo.GetByID(ctx, id)
}

// ListBySession retrieves every class offer scheduled within one session.
func (s *ClassOfferService) ListBySession(ctx context.Context, sessionID int64) ([]*models.ClassOffer, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.offerRepo.GetBySessionID(ctx, sessionID)
}

// Window returns the concrete first and last meeting dates of a class
// offer, derived from its session.
func (s *ClassOfferService) Window(ctx context.Context, classOfferID int64) (time.Time, time.Time, error) {
	offer, err := s.offerRepo.GetByID(ctx, classOfferID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if offer.Session == nil || offer.Session.KeyDayDate.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: class offer %d has no dated session", apperrors.ErrTypeMismatch, offer.ID)
	}
	return offer.StartDate(offer.Session), offer.EndDate(offer.Session), nil
}

// Register enrolls a user into a class offer. Payment and notification
// around the registration are external concerns.
func (s *ClassOfferService) Register(ctx context.Context, userID uuid.UUID, classOfferID int64) (*models.Registration, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.offerRepo.GetByID(ctx, classOfferID); err != nil {
		return nil, err
	}
	return s.userRepo.Register(ctx, userID, classOfferID)
}
