package services_test

import (
	"image"
	"time"

	"nfd/internal/assets"
	"nfd/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockNFDRepository is a mock implementation of repositories.NFDRepository.
type MockNFDRepository struct {
	mock.Mock
}

func (m *MockNFDRepository) GetByCode(code string) (*models.NFD, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NFD), args.Error(1)
}

func (m *MockNFDRepository) GetByName(name string) (*models.NFD, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NFD), args.Error(1)
}

func (m *MockNFDRepository) GetByOwner(ownerID string) ([]models.NFD, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NFD), args.Error(1)
}

func (m *MockNFDRepository) Create(nfd *models.NFD) error {
	args := m.Called(nfd)
	return args.Error(0)
}

func (m *MockNFDRepository) Rename(oldName, newName string) error {
	args := m.Called(oldName, newName)
	return args.Error(0)
}

func (m *MockNFDRepository) TransferOwnership(name, newOwner string) error {
	args := m.Called(name, newOwner)
	return args.Error(0)
}

func (m *MockNFDRepository) UpdateFilename(name, filename string) error {
	args := m.Called(name, filename)
	return args.Error(0)
}

func (m *MockNFDRepository) Delete(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

// MockCollectorRepository is a mock implementation of
// repositories.CollectorRepository.
type MockCollectorRepository struct {
	mock.Mock
}

func (m *MockCollectorRepository) GetOrCreate(id string) (*models.Collector, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collector), args.Error(1)
}

func (m *MockCollectorRepository) Get(id string) (*models.Collector, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collector), args.Error(1)
}

func (m *MockCollectorRepository) RecordSuccessfulMint(id string, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockCollectorRepository) RecordFailedMint(id string, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockCollectorRepository) RecordGift(id string, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockCollectorRepository) RecordRename(id string, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockCollectorRepository) ResetCooldowns(id string, which models.Cooldown) error {
	args := m.Called(id, which)
	return args.Error(0)
}

// MockCatalog is a mock implementation of assets.Catalog.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) List(kind assets.Kind) ([]string, error) {
	args := m.Called(kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockComposer is a mock implementation of services.ImageComposer.
type MockComposer struct {
	mock.Mock
}

func (m *MockComposer) Compose(body, mouth, eyes string) (image.Image, error) {
	args := m.Called(body, mouth, eyes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(image.Image), args.Error(1)
}

func (m *MockComposer) Save(img image.Image, path string) error {
	args := m.Called(img, path)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}
