package repositories

import "nfd/internal/models"

// UserRepository defines the interface for API user data access. Lookups
// return ErrNotFound when no such user exists.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
