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
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/dates"
)

// ResourceQuery narrows a resource listing. Live and LiveByDate are
// mutually independent filters; AsOf pins "today" and defaults to the
// current date.
type ResourceQuery struct {
	Live       bool
	LiveByDate bool
	UserID     *uuid.UUID
	AsOf       *time.Time
}

// ResourceService implements the availability engine: per-resource publish
// and expire dates against a reference class offer, live classification, and
// the aggregation across a user's registered offers. All of it is
// query-time computation; nothing here writes derived dates back.
type ResourceService struct {
	resourceRepo *repositories.ResourceRepository
	offerRepo    *repositories.ClassOfferRepository
	userRepo     *repositories.UserRepository
	timing       models.Timing
	logger       zerolog.Logger

	now func() time.Time
}

// NewResourceService creates a new resource service instance
func NewResourceService(resourceRepo *repositories.ResourceRepository, offerRepo *repositories.ClassOfferRepository, userRepo *repositories.UserRepository, timing models.Timing, logger zerolog.Logger) *ResourceService {
	return &ResourceService{
		resourceRepo: resourceRepo,
		offerRepo:    offerRepo,
		userRepo:     userRepo,
		timing:       timing,
		logger:       logger,
		now:          dates.Today,
	}
}

// CreateResource validates and stores a new resource.
func (s *ResourceService) CreateResource(ctx context.Context, resource *models.Resource) error {
	if resource.ContentType == "" || resource.Title == "" {
		return fmt.Errorf("%w: content_type and title are required", apperrors.ErrValidationFailed)
	}
	if resource.Avail < 0 {
		return fmt.Errorf("%w: avail cannot be negative", apperrors.ErrValidationFailed)
	}
	if resource.Expire < 0 {
		return fmt.Errorf("%w: expire cannot be negative", apperrors.ErrValidationFailed)
	}
	return s.resourceRepo.Create(ctx, resource)
}

// GetResource retrieves a resource by id without any window computation.
func (s *ResourceService) GetResource(ctx context.Context, id int64) (*models.Resource, error) {
	return s.resourceRepo.GetByID(ctx, id)
}

// AttachToClassOffer links a resource directly to a class offer.
func (s *ResourceService) AttachToClassOffer(ctx context.Context, resourceID, classOfferID int64) error {
	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		return err
	}
	if _, err := s.offerRepo.GetByID(ctx, classOfferID); err != nil {
		return err
	}
	return s.resourceRepo.AttachToClassOffer(ctx, resourceID, classOfferID)
}

// AttachToSubject links a resource to a subject, making it visible through
// every class offer of that subject.
func (s *ResourceService) AttachToSubject(ctx context.Context, resourceID, subjectID int64) error {
	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		return err
	}
	return s.resourceRepo.AttachToSubject(ctx, resourceID, subjectID)
}

// GetResources lists the resources visible through one class offer (directly
// attached plus inherited from its subject), each with its computed window.
// The Live filter is skipped for teacher-or-above callers so staff always
// see the full catalog; LiveByDate stays role-blind.
func (s *ResourceService) GetResources(ctx context.Context, classOfferID int64, query ResourceQuery) ([]*models.ResourceView, error) {
	offer, err := s.offerRepo.GetByID(ctx, classOfferID)
	if err != nil {
		return nil, err
	}

	resources, err := s.resourceRepo.ForClassOffer(ctx, offer.ID, offer.SubjectID)
	if err != nil {
		return nil, err
	}

	role, err := s.resolveRole(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	asOf := s.asOf(query)

	views := make([]*models.ResourceView, 0, len(resources))
	for _, resource := range resources {
		view, err := s.classify(resource, offer, asOf)
		if err != nil {
			return nil, err
		}
		if query.Live && role < models.RoleTeacher && !view.Live {
			continue
		}
		if query.LiveByDate && !liveByDate(view, asOf) {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

// ResourcesForUser aggregates GetResources across every class offer the user
// is registered for, deduplicating by resource id: a resource inherited from
// a subject shared by two offers counts once.
func (s *ResourceService) ResourcesForUser(ctx context.Context, userID uuid.UUID, query ResourceQuery) ([]*models.ResourceView, error) {
	offers, err := s.offerRepo.GetRegisteredForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	query.UserID = &userID

	seen := make(map[int64]struct{})
	var views []*models.ResourceView
	for _, offer := range offers {
		perOffer, err := s.GetResources(ctx, offer.ID, query)
		if err != nil {
			return nil, err
		}
		for _, view := range perOffer {
			if _, ok := seen[view.ID]; ok {
				continue
			}
			seen[view.ID] = struct{}{}
			views = append(views, view)
		}
	}
	return views, nil
}

// ResourcesForLevels would filter a user's resources by OR-combined subject
// level and version criteria. The OR semantics were never agreed on, so this
// stays an explicit error rather than a guess.
func (s *ResourceService) ResourcesForLevels(ctx context.Context, userID uuid.UUID, levels []int, versions []string) ([]*models.ResourceView, error) {
	return nil, fmt.Errorf("%w: OR-combined level/version filtering", apperrors.ErrNotSupported)
}

// MostRecentResource is intentionally unimplemented. The one-most-recent-
// per-offer aggregation needs a correlated subquery or window function and
// has no agreed ordering yet; callers get an explicit error instead of a
// guess.
func (s *ResourceService) MostRecentResource(ctx context.Context, classOfferID int64) (*models.ResourceView, error) {
	return nil, fmt.Errorf("%w: most-recent-resource-per-offer aggregation", apperrors.ErrNotSupported)
}

// classify computes one resource's window and live status against the
// reference offer. The branch order is load-bearing: publish gating wins
// over every expiration rule.
func (s *ResourceService) classify(resource *models.Resource, offer *models.ClassOffer, asOf time.Time) (*models.ResourceView, error) {
	if offer.Session == nil || offer.Session.KeyDayDate.IsZero() {
		return nil, fmt.Errorf("%w: class offer %d has no dated session", apperrors.ErrTypeMismatch, offer.ID)
	}
	if offer.SkipWeeks < 0 || resource.Avail < 0 || resource.Expire < 0 {
		return nil, fmt.Errorf("%w: negative week counts on resource %d", apperrors.ErrTypeMismatch, resource.ID)
	}
	if s.timing.MaxWeeks < 2 {
		return nil, fmt.Errorf("%w: max session weeks %d leaves no week range for avail", apperrors.ErrTypeMismatch, s.timing.MaxWeeks)
	}

	start := offer.StartDate(offer.Session)
	end := offer.EndDate(offer.Session)
	maxWeeks := s.timing.MaxWeeks
	skips := offer.SkipWeeks

	var publish time.Time
	switch {
	case resource.Avail == models.AvailOnSignup:
		publish = dates.Earlier(start, asOf)
	case resource.Avail < maxWeeks:
		publish = dates.AddWeeks(start, resource.Avail)
	default:
		publish = end
	}

	view := &models.ResourceView{Resource: *resource, PublishDate: publish}
	if resource.Expire != models.NeverExpires {
		expire := dates.AddWeeks(publish, resource.Expire+skips)
		view.ExpireDate = &expire
	}

	daysSince := dates.DaysBetween(start, asOf)
	switch {
	case publish.After(asOf):
		view.Live = false
	case resource.Expire == models.NeverExpires:
		view.Live = true
	case resource.Avail > maxWeeks:
		view.Live = daysSince <= 7*(maxWeeks+resource.Expire+skips-1)
	case resource.Avail == models.AvailOnSignup:
		// Kept apart from the general rule: "before class starts" semantics,
		// even though the arithmetic matches avail=1.
		view.Live = daysSince <= 7*(resource.Expire+skips)
	default:
		view.Live = daysSince <= 7*(resource.Avail+resource.Expire+skips-1)
	}

	return view, nil
}

func (s *ResourceService) resolveRole(ctx context.Context, userID *uuid.UUID) (models.UserRole, error) {
	if userID == nil {
		return models.RolePublic, nil
	}
	ordinal, err := s.userRepo.RoleOf(ctx, *userID)
	if err != nil {
		return models.RolePublic, err
	}
	return models.RoleFromOrdinal(ordinal), nil
}

func (s *ResourceService) asOf(query ResourceQuery) time.Time {
	if query.AsOf != nil {
		return dates.Civil(*query.AsOf)
	}
	return dates.Civil(s.now())
}

// liveByDate is the loose chronological filter: published on or before the
// reference day and not yet past the expire date.
func liveByDate(view *models.ResourceView, asOf time.Time) bool {
	if view.PublishDate.After(asOf) {
		return false
	}
	return view.ExpireDate == nil || !view.ExpireDate.Before(asOf)
}
