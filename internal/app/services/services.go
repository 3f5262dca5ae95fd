package services

import (
	"github.com/rs/zerolog"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/app/repositories"
	"github.com/SeattleChris/hepcat-sub000/internal/db"
)

// Services defined in this package:
// - SessionService: session lifecycle, chain defaults, and overlap resolution
// - ClassOfferService: subjects, class offers, and registrations
// - ResourceService: resource windows, live classification, and aggregation

// Services holds all service instances
type Services struct {
	SessionService    *SessionService
	ClassOfferService *ClassOfferService
	ResourceService   *ResourceService
}

// NewServices wires every service over the shared repositories, database
// handle, and scheduling constants.
func NewServices(repos *repositories.Repositories, database *db.PostgresDB, timing models.Timing, logger zerolog.Logger) *Services {
	return &Services{
		SessionService: NewSessionService(
			repos.SessionRepository, database, timing, logger),
		ClassOfferService: NewClassOfferService(
			repos.ClassOfferRepository, repos.SubjectRepository,
			repos.SessionRepository, repos.UserRepository, logger),
		ResourceService: NewResourceService(
			repos.ResourceRepository, repos.ClassOfferRepository,
			repos.UserRepository, timing, logger),
	}
}
