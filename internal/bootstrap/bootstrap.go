package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/SeattleChris/hepcat-sub000/internal/app/controllers"
	appMigrations "github.com/SeattleChris/hepcat-sub000/internal/app/migrations"
	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	appRepos "github.com/SeattleChris/hepcat-sub000/internal/app/repositories"
	appRoutes "github.com/SeattleChris/hepcat-sub000/internal/app/routes"
	appServices "github.com/SeattleChris/hepcat-sub000/internal/app/services"
	"github.com/SeattleChris/hepcat-sub000/internal/config"
	"github.com/SeattleChris/hepcat-sub000/internal/db"
	appMiddleware "github.com/SeattleChris/hepcat-sub000/internal/middleware"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/logger"
	"github.com/SeattleChris/hepcat-sub000/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Database             *db.PostgresDB
	Repos                *appRepos.Repositories
	Services             *appServices.Services
	SessionController    *appControllers.SessionController
	ClassOfferController *appControllers.ClassOfferController
	ResourceController   *appControllers.ResourceController
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	// Demo data only outside production.
	if strings.ToLower(cfg.Server.Mode) != "production" {
		if err := seed.CreateDefaultData(context.Background(), database, SchedulingTiming(cfg), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// SchedulingTiming maps the injected scheduling constants onto the model
// layer's Timing value.
func SchedulingTiming(cfg *config.Config) models.Timing {
	return models.Timing{
		MinWeeks:             cfg.Scheduling.MinSessionWeeks,
		MaxWeeks:             cfg.Scheduling.MaxSessionWeeks,
		DefaultWeeks:         cfg.Scheduling.DefaultSessionWeeks,
		DefaultMaxDayShift:   cfg.Scheduling.DefaultMaxDayShift,
		LongExpireOffset:     cfg.Scheduling.LongExpireOffset,
		ShortExpireOffset:    cfg.Scheduling.ShortExpireOffset,
		ResolveMaxIterations: cfg.Scheduling.ResolveMaxIterations,
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Database: database, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)
	deps.Services = appServices.NewServices(deps.Repos, database, SchedulingTiming(cfg), lgr)

	deps.SessionController = appControllers.NewSessionController(deps.Services.SessionService)
	deps.ClassOfferController = appControllers.NewClassOfferController(deps.Services.ClassOfferService)
	deps.ResourceController = appControllers.NewResourceController(deps.Services.ResourceService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.SessionController,
		deps.ClassOfferController,
		deps.ResourceController,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
