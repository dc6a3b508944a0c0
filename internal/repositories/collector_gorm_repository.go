package repositories

import (
	"errors"
	"fmt"
	"time"

	"nfd/internal/models"

	"gorm.io/gorm"
)

// GORMCollectorRepository is a GORM implementation of CollectorRepository.
type GORMCollectorRepository struct {
	db *gorm.DB
}

// NewGORMCollectorRepository creates a new instance of GORMCollectorRepository.
func NewGORMCollectorRepository(db *gorm.DB) *GORMCollectorRepository {
	return &GORMCollectorRepository{
		db: db,
	}
}

// GetOrCreate fetches a collector record, lazily creating it on first use.
func (r *GORMCollectorRepository) GetOrCreate(id string) (*models.Collector, error) {
	var collector models.Collector
	err := r.db.Where(models.Collector{ID: id}).FirstOrCreate(&collector).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collector %s: %w", id, err)
	}
	return &collector, nil
}

// Get fetches an existing collector record.
func (r *GORMCollectorRepository) Get(id string) (*models.Collector, error) {
	var collector models.Collector
	if err := r.db.First(&collector, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("collector %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get collector %s: %w", id, err)
	}
	return &collector, nil
}

// RecordSuccessfulMint stamps the mint cooldown, bumps both counters and
// resets the consecutive-failure streak.
func (r *GORMCollectorRepository) RecordSuccessfulMint(id string, at time.Time) error {
	res := r.db.Model(&models.Collector{}).Where("id = ?", id).Updates(map[string]interface{}{
		"mint_count":        gorm.Expr("mint_count + 1"),
		"successful_mints":  gorm.Expr("successful_mints + 1"),
		"last_mint":         at,
		"consecutive_fails": 0,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to record successful mint for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("collector %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecordFailedMint stamps the mint cooldown and extends the failure streak.
func (r *GORMCollectorRepository) RecordFailedMint(id string, at time.Time) error {
	res := r.db.Model(&models.Collector{}).Where("id = ?", id).Updates(map[string]interface{}{
		"consecutive_fails": gorm.Expr("consecutive_fails + 1"),
		"last_mint":         at,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to record failed mint for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("collector %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecordGift stamps the gift cooldown.
func (r *GORMCollectorRepository) RecordGift(id string, at time.Time) error {
	return r.stamp(id, "last_gift_given", at)
}

// RecordRename stamps the rename cooldown.
func (r *GORMCollectorRepository) RecordRename(id string, at time.Time) error {
	return r.stamp(id, "last_rename", at)
}

func (r *GORMCollectorRepository) stamp(id, column string, at time.Time) error {
	res := r.db.Model(&models.Collector{}).Where("id = ?", id).Update(column, at)
	if res.Error != nil {
		return fmt.Errorf("failed to stamp %s for %s: %w", column, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("collector %s: %w", id, ErrNotFound)
	}
	return nil
}

// ResetCooldowns zeroes the targeted cooldown stamps, creating the collector
// record first if it does not exist yet.
func (r *GORMCollectorRepository) ResetCooldowns(id string, which models.Cooldown) error {
	if _, err := r.GetOrCreate(id); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	switch which {
	case models.CooldownMint:
		updates["last_mint"] = time.Time{}
	case models.CooldownRename:
		updates["last_rename"] = time.Time{}
	case models.CooldownGift:
		updates["last_gift_given"] = time.Time{}
	case models.CooldownAll:
		updates["last_mint"] = time.Time{}
		updates["last_rename"] = time.Time{}
		updates["last_gift_given"] = time.Time{}
	default:
		return fmt.Errorf("unknown cooldown %q", which)
	}

	if err := r.db.Model(&models.Collector{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to reset %s cooldown for %s: %w", which, id, err)
	}
	return nil
}
