package repositories

import (
	"time"

	"nfd/internal/models"
)

// CollectorRepository defines the interface for per-user economy records.
// Timestamps are passed in by the caller so services control the clock.
type CollectorRepository interface {
	GetOrCreate(id string) (*models.Collector, error)
	Get(id string) (*models.Collector, error)
	RecordSuccessfulMint(id string, at time.Time) error
	RecordFailedMint(id string, at time.Time) error
	RecordGift(id string, at time.Time) error
	RecordRename(id string, at time.Time) error
	ResetCooldowns(id string, which models.Cooldown) error
}
