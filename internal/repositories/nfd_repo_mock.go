package repositories

import (
	"fmt"
	"sync"

	"nfd/internal/models"

	"github.com/google/uuid"
)

// MockNFDRepository is an in-memory implementation of NFDRepository. Its
// mutex makes check-and-insert atomic, mirroring the unique constraints the
// GORM implementation gets from the database.
type MockNFDRepository struct {
	byName map[string]models.NFD
	byCode map[string]string // code -> name
	mu     sync.RWMutex
}

// NewMockNFDRepository creates a new instance of MockNFDRepository.
func NewMockNFDRepository() *MockNFDRepository {
	return &MockNFDRepository{
		byName: make(map[string]models.NFD),
		byCode: make(map[string]string),
	}
}

// GetByCode returns an NFD by its code.
func (r *MockNFDRepository) GetByCode(code string) (*models.NFD, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.byCode[code]
	if !ok {
		return nil, fmt.Errorf("NFD with code %s: %w", code, ErrNotFound)
	}
	nfd := r.byName[name]
	return &nfd, nil
}

// GetByName returns an NFD by its display name.
func (r *MockNFDRepository) GetByName(name string) (*models.NFD, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nfd, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("NFD with name %s: %w", name, ErrNotFound)
	}
	return &nfd, nil
}

// GetByOwner returns all NFDs currently owned by a user.
func (r *MockNFDRepository) GetByOwner(ownerID string) ([]models.NFD, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var nfds []models.NFD
	for _, nfd := range r.byName {
		if nfd.Owner == ownerID {
			nfds = append(nfds, nfd)
		}
	}
	return nfds, nil
}

// Create adds a new NFD, enforcing both uniqueness invariants atomically.
func (r *MockNFDRepository) Create(nfd *models.NFD) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[nfd.Code]; exists {
		return ErrDuplicateCode
	}
	if _, exists := r.byName[nfd.Name]; exists {
		return ErrDuplicateName
	}

	if nfd.ID == "" {
		nfd.ID = uuid.New().String()
	}
	r.byName[nfd.Name] = *nfd
	r.byCode[nfd.Code] = nfd.Name
	return nil
}

// Rename changes an NFD's display name.
func (r *MockNFDRepository) Rename(oldName, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nfd, ok := r.byName[oldName]
	if !ok {
		return fmt.Errorf("NFD with name %s: %w", oldName, ErrNotFound)
	}
	if _, taken := r.byName[newName]; taken {
		return ErrDuplicateName
	}

	delete(r.byName, oldName)
	nfd.Name = newName
	r.byName[newName] = nfd
	r.byCode[nfd.Code] = newName
	return nil
}

// TransferOwnership appends newOwner to the history and sets the owner.
func (r *MockNFDRepository) TransferOwnership(name, newOwner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nfd, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("NFD with name %s: %w", name, ErrNotFound)
	}
	nfd.AppendOwner(newOwner)
	r.byName[name] = nfd
	return nil
}

// UpdateFilename records a new image location for an NFD.
func (r *MockNFDRepository) UpdateFilename(name, filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nfd, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("NFD with name %s: %w", name, ErrNotFound)
	}
	nfd.Filename = filename
	r.byName[name] = nfd
	return nil
}

// Delete removes an NFD by name.
func (r *MockNFDRepository) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nfd, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("NFD with name %s: %w", name, ErrNotFound)
	}
	delete(r.byName, name)
	delete(r.byCode, nfd.Code)
	return nil
}
