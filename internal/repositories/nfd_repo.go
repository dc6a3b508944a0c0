package repositories

import (
	"nfd/internal/models"
)

// NFDRepository defines the interface for NFD data access. Lookups return
// ErrNotFound for absent records; Create and Rename surface
// ErrDuplicateCode/ErrDuplicateName when a uniqueness invariant would be
// violated at commit time.
type NFDRepository interface {
	GetByCode(code string) (*models.NFD, error)
	GetByName(name string) (*models.NFD, error)
	GetByOwner(ownerID string) ([]models.NFD, error)
	Create(nfd *models.NFD) error
	Rename(oldName, newName string) error
	TransferOwnership(name, newOwner string) error
	UpdateFilename(name, filename string) error
	Delete(name string) error
}
