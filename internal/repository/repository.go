package repository

import (
	"github.com/gamarriando/user-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User      UserRepository
	Role      RoleRepository
	Session   SessionRepository
	AuthToken AuthTokenRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Role:      NewRoleRepository(db),
		Session:   NewSessionRepository(db),
		AuthToken: NewAuthTokenRepository(db),
	}
}
