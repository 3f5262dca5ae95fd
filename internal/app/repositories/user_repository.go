package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/dberrors"
)

// UserRepository handles the narrow slice of account data this engine needs:
// an opaque uuid reference, a role ordinal, and registrations. Account
// management itself is an external service.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create inserts a new user reference
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	query := `
		INSERT INTO users (id, full_name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, user.ID, user.FullName, user.Email, user.Role).
		Scan(&user.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		return err
	}

	return nil
}

// GetByID retrieves a user by their opaque reference
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT id, full_name, email, role, created_at FROM users WHERE id = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// RoleOf resolves the raw role ordinal for a user reference
func (r *UserRepository) RoleOf(ctx context.Context, id uuid.UUID) (int, error) {
	var role int
	err := r.db.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, id).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, err
	}

	return role, nil
}

// Register links a user to a class offer
func (r *UserRepository) Register(ctx context.Context, userID uuid.UUID, classOfferID int64) (*models.Registration, error) {
	query := `
		INSERT INTO registrations (user_id, class_offer_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, class_offer_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, created_at
	`

	reg := &models.Registration{UserID: userID, ClassOfferID: classOfferID}
	err := r.db.QueryRow(ctx, query, userID, classOfferID).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}

	return reg, nil
}
