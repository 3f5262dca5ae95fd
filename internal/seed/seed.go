package seed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appModels "github.com/SeattleChris/hepcat-sub000/internal/app/models"
	appRepos "github.com/SeattleChris/hepcat-sub000/internal/app/repositories"
	appServices "github.com/SeattleChris/hepcat-sub000/internal/app/services"
	"github.com/SeattleChris/hepcat-sub000/internal/db"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/dates"
)

// CreateDefaultData seeds demo subjects, sessions, class offers, and
// resources if they don't exist. Sessions go through the lifecycle service
// so chaining and expire computation run exactly as they would for real
// input.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, timing appModels.Timing, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(database.Pool)
	services := appServices.NewServices(repos, database, timing, lgr)

	lgr.Info().Msg("Checking/Creating default data (Subjects/Sessions/Resources)...")
	var finalErr error

	// --- Subjects --- //
	lindy := &appModels.Subject{Name: "Lindy Hop", Level: 1, Version: "A"}
	if err := services.ClassOfferService.CreateSubject(ctx, lindy); err != nil {
		lgr.Error().Err(err).Msg("Error creating lindy hop subject")
		finalErr = errors.Join(finalErr, err)
	}
	balboa := &appModels.Subject{Name: "Balboa", Level: 1, Version: "A"}
	if err := services.ClassOfferService.CreateSubject(ctx, balboa); err != nil {
		lgr.Error().Err(err).Msg("Error creating balboa subject")
		finalErr = errors.Join(finalErr, err)
	}

	// --- Sessions --- //
	// The first session is fully specified; the second takes every date from
	// the chain.
	keyDay := dates.New(2026, time.April, 30)
	shift := -2
	may, err := services.SessionService.CreateSession(ctx, appServices.SessionPatch{
		Name:        strPtr("May_2026"),
		KeyDayDate:  &keyDay,
		MaxDayShift: &shift,
	})
	if err != nil && !errors.Is(err, apperrors.ErrSessionAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating May session")
		finalErr = errors.Join(finalErr, err)
	} else if errors.Is(err, apperrors.ErrSessionAlreadyExists) {
		may, err = services.SessionService.GetSessionByName(ctx, "May_2026")
		if err != nil {
			lgr.Error().Err(err).Msg("Error loading existing May session")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if _, err := services.SessionService.CreateSession(ctx, appServices.SessionPatch{
		Name: strPtr("June_2026"),
	}); err != nil && !errors.Is(err, apperrors.ErrSessionAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating June session")
		finalErr = errors.Join(finalErr, err)
	}

	// --- Class offer, user, registration, resources --- //
	if may == nil || lindy.ID == 0 {
		return finalErr
	}

	offer := &appModels.ClassOffer{
		SessionID: may.ID,
		SubjectID: lindy.ID,
		ClassDay:  appModels.Thursday,
		StartTime: "19:00",
	}
	if err := services.ClassOfferService.CreateClassOffer(ctx, offer); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo class offer")
		return errors.Join(finalErr, err)
	}

	student := &appModels.User{
		ID:       uuid.New(),
		FullName: "Demo Student",
		Email:    "student@example.com",
		Role:     int(appModels.RoleStudent),
	}
	if err := repos.UserRepository.Create(ctx, student); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo student")
		finalErr = errors.Join(finalErr, err)
	} else if _, err := services.ClassOfferService.Register(ctx, student.ID, offer.ID); err != nil {
		lgr.Error().Err(err).Msg("Error registering demo student")
		finalErr = errors.Join(finalErr, err)
	}

	syllabus := &appModels.Resource{
		ContentType: "document",
		Title:       "Class syllabus",
		Link:        "https://example.com/syllabus.pdf",
		Avail:       appModels.AvailOnSignup,
		Expire:      appModels.NeverExpires,
	}
	weekTwoVideo := &appModels.Resource{
		ContentType: "video",
		Title:       "Week two recap",
		Link:        "https://example.com/v/week2",
		Avail:       2,
		Expire:      2,
	}
	for _, r := range []*appModels.Resource{syllabus, weekTwoVideo} {
		if err := services.ResourceService.CreateResource(ctx, r); err != nil {
			lgr.Error().Err(err).Msg("Error creating demo resource")
			finalErr = errors.Join(finalErr, err)
		}
	}
	if syllabus.ID > 0 {
		if err := services.ResourceService.AttachToSubject(ctx, syllabus.ID, lindy.ID); err != nil {
			lgr.Error().Err(err).Msg("Error attaching syllabus to subject")
			finalErr = errors.Join(finalErr, err)
		}
	}
	if weekTwoVideo.ID > 0 {
		if err := services.ResourceService.AttachToClassOffer(ctx, weekTwoVideo.ID, offer.ID); err != nil {
			lgr.Error().Err(err).Msg("Error attaching recap video to class offer")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete.")
	}
	return finalErr
}

func strPtr(s string) *string { return &s }
