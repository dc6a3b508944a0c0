package repositories

import (
	"errors"
	"fmt"

	"nfd/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMNFDRepository is a GORM implementation of NFDRepository. The database
// must be opened with TranslateError so unique-constraint violations show up
// as gorm.ErrDuplicatedKey regardless of driver.
type GORMNFDRepository struct {
	db *gorm.DB
}

// NewGORMNFDRepository creates a new instance of GORMNFDRepository.
func NewGORMNFDRepository(db *gorm.DB) *GORMNFDRepository {
	return &GORMNFDRepository{
		db: db,
	}
}

// GetByCode retrieves an NFD by its code.
func (r *GORMNFDRepository) GetByCode(code string) (*models.NFD, error) {
	var nfd models.NFD
	if err := r.db.First(&nfd, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("NFD with code %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get NFD by code %s: %w", code, err)
	}
	return &nfd, nil
}

// GetByName retrieves an NFD by its display name.
func (r *GORMNFDRepository) GetByName(name string) (*models.NFD, error) {
	var nfd models.NFD
	if err := r.db.First(&nfd, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("NFD with name %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get NFD by name %s: %w", name, err)
	}
	return &nfd, nil
}

// GetByOwner retrieves every NFD currently owned by the given user.
func (r *GORMNFDRepository) GetByOwner(ownerID string) ([]models.NFD, error) {
	var nfds []models.NFD
	if err := r.db.Find(&nfds, "owner = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get NFDs for owner %s: %w", ownerID, err)
	}
	return nfds, nil
}

// Create persists a new NFD. The unique indexes on code and name are the
// race-safe enforcement point; a constraint violation is classified by
// re-probing which column clashed.
func (r *GORMNFDRepository) Create(nfd *models.NFD) error {
	if nfd.ID == "" {
		nfd.ID = uuid.New().String()
	}
	if err := r.db.Create(nfd).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.classifyDuplicate(nfd.Code)
		}
		return fmt.Errorf("failed to create NFD: %w", err)
	}
	return nil
}

func (r *GORMNFDRepository) classifyDuplicate(code string) error {
	var count int64
	if err := r.db.Model(&models.NFD{}).Where("code = ?", code).Count(&count).Error; err == nil && count > 0 {
		return ErrDuplicateCode
	}
	return ErrDuplicateName
}

// Rename changes an NFD's display name. The new name must be free.
func (r *GORMNFDRepository) Rename(oldName, newName string) error {
	res := r.db.Model(&models.NFD{}).Where("name = ?", oldName).Update("name", newName)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to rename NFD %s: %w", oldName, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("NFD with name %s: %w", oldName, ErrNotFound)
	}
	return nil
}

// TransferOwnership appends newOwner to the NFD's ownership history and makes
// them the current owner.
func (r *GORMNFDRepository) TransferOwnership(name, newOwner string) error {
	nfd, err := r.GetByName(name)
	if err != nil {
		return err
	}
	nfd.AppendOwner(newOwner)

	res := r.db.Model(&models.NFD{}).Where("name = ?", name).Updates(map[string]interface{}{
		"owner":           nfd.Owner,
		"previous_owners": nfd.PreviousOwners,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to transfer NFD %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("NFD with name %s: %w", name, ErrNotFound)
	}
	return nil
}

// UpdateFilename records a freshly (re)composed image location.
func (r *GORMNFDRepository) UpdateFilename(name, filename string) error {
	res := r.db.Model(&models.NFD{}).Where("name = ?", name).Update("filename", filename)
	if res.Error != nil {
		return fmt.Errorf("failed to update filename for NFD %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("NFD with name %s: %w", name, ErrNotFound)
	}
	return nil
}

// Delete removes an NFD by name. The delete is unscoped: a purged code must
// be mintable again, so no soft-deleted row may linger in the unique indexes.
func (r *GORMNFDRepository) Delete(name string) error {
	res := r.db.Unscoped().Delete(&models.NFD{}, "name = ?", name)
	if res.Error != nil {
		return fmt.Errorf("failed to delete NFD %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("NFD with name %s: %w", name, ErrNotFound)
	}
	return nil
}
