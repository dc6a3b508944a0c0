package repositories

import (
	"fmt"
	"sync"
	"time"

	"nfd/internal/models"
)

// MockCollectorRepository is an in-memory implementation of
// CollectorRepository.
type MockCollectorRepository struct {
	collectors map[string]models.Collector
	mu         sync.RWMutex
}

// NewMockCollectorRepository creates a new instance of MockCollectorRepository.
func NewMockCollectorRepository() *MockCollectorRepository {
	return &MockCollectorRepository{
		collectors: make(map[string]models.Collector),
	}
}

// GetOrCreate fetches a collector record, creating it on first use.
func (r *MockCollectorRepository) GetOrCreate(id string) (*models.Collector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collector, ok := r.collectors[id]
	if !ok {
		collector = models.Collector{ID: id}
		r.collectors[id] = collector
	}
	return &collector, nil
}

// Get fetches an existing collector record.
func (r *MockCollectorRepository) Get(id string) (*models.Collector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collector, ok := r.collectors[id]
	if !ok {
		return nil, fmt.Errorf("collector %s: %w", id, ErrNotFound)
	}
	return &collector, nil
}

// RecordSuccessfulMint stamps the mint cooldown, bumps both counters and
// resets the failure streak.
func (r *MockCollectorRepository) RecordSuccessfulMint(id string, at time.Time) error {
	return r.update(id, func(c *models.Collector) {
		c.MintCount++
		c.SuccessfulMints++
		c.LastMint = at
		c.ConsecutiveFails = 0
	})
}

// RecordFailedMint stamps the mint cooldown and extends the failure streak.
func (r *MockCollectorRepository) RecordFailedMint(id string, at time.Time) error {
	return r.update(id, func(c *models.Collector) {
		c.ConsecutiveFails++
		c.LastMint = at
	})
}

// RecordGift stamps the gift cooldown.
func (r *MockCollectorRepository) RecordGift(id string, at time.Time) error {
	return r.update(id, func(c *models.Collector) {
		c.LastGiftGiven = at
	})
}

// RecordRename stamps the rename cooldown.
func (r *MockCollectorRepository) RecordRename(id string, at time.Time) error {
	return r.update(id, func(c *models.Collector) {
		c.LastRename = at
	})
}

// ResetCooldowns zeroes the targeted cooldown stamps, creating the record if
// it does not exist.
func (r *MockCollectorRepository) ResetCooldowns(id string, which models.Cooldown) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collector, ok := r.collectors[id]
	if !ok {
		collector = models.Collector{ID: id}
	}

	switch which {
	case models.CooldownMint:
		collector.LastMint = time.Time{}
	case models.CooldownRename:
		collector.LastRename = time.Time{}
	case models.CooldownGift:
		collector.LastGiftGiven = time.Time{}
	case models.CooldownAll:
		collector.LastMint = time.Time{}
		collector.LastRename = time.Time{}
		collector.LastGiftGiven = time.Time{}
	default:
		return fmt.Errorf("unknown cooldown %q", which)
	}

	r.collectors[id] = collector
	return nil
}

func (r *MockCollectorRepository) update(id string, fn func(*models.Collector)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collector, ok := r.collectors[id]
	if !ok {
		return fmt.Errorf("collector %s: %w", id, ErrNotFound)
	}
	fn(&collector)
	r.collectors[id] = collector
	return nil
}
