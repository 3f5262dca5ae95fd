package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	SessionRepository    *SessionRepository
	ClassOfferRepository *ClassOfferRepository
	SubjectRepository    *SubjectRepository
	ResourceRepository   *ResourceRepository
	UserRepository       *UserRepository
}

// NewRepositories creates all repositories backed by one pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		SessionRepository:    NewSessionRepository(db),
		ClassOfferRepository: NewClassOfferRepository(db),
		SubjectRepository:    NewSubjectRepository(db),
		ResourceRepository:   NewResourceRepository(db),
		UserRepository:       NewUserRepository(db),
	}
}
