package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"nfd/internal/assets"
	"nfd/internal/generator"
	"nfd/internal/models"
	"nfd/internal/repositories"
)

// MintService arbitrates mint attempts: cooldown gate, bounded
// generate-and-collide loop, the mint roll with its escalating success
// threshold, and the final compose-and-persist step.
type MintService struct {
	nfdRepo       repositories.NFDRepository
	collectorRepo repositories.CollectorRepository
	catalog       assets.Catalog
	composer      ImageComposer
	publisher     EventPublisher
	cfg           Config

	// Now and Roll default to the real clock and dice; tests swap in
	// deterministic versions.
	Now  func() time.Time
	Roll generator.RollFunc
}

// NewMintService creates a new MintService.
func NewMintService(
	nfdRepo repositories.NFDRepository,
	collectorRepo repositories.CollectorRepository,
	catalog assets.Catalog,
	composer ImageComposer,
	publisher EventPublisher,
	cfg Config,
) *MintService {
	return &MintService{
		nfdRepo:       nfdRepo,
		collectorRepo: collectorRepo,
		catalog:       catalog,
		composer:      composer,
		publisher:     publisher,
		cfg:           cfg,
		Now:           time.Now,
		Roll:          generator.Roll,
	}
}

// Mint runs one end-to-end mint attempt for userID. On a failed roll it
// returns a MintRollError; the cooldown and failure streak have already been
// stamped. On success the cooldown and counters are stamped before the image
// is composed and the record created, so a late compose/persist failure does
// not hand the cooldown back.
func (s *MintService) Mint(userID string) (*models.NFD, error) {
	collector, err := s.collectorRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	availableAt := collector.LastMint.Add(s.cfg.MintCooldown)
	if now.Before(availableAt) {
		return nil, &CooldownError{Action: "mint", AvailableAt: availableAt}
	}

	parts, name, err := s.generateUnique()
	if err != nil {
		return nil, err
	}

	// The mint roll. Each consecutive failure lowers the bar until success
	// is guaranteed after three failed rolls in a row.
	roll := s.Roll(4, 1, 1)
	if roll <= 3-collector.ConsecutiveFails {
		if err := s.collectorRepo.RecordFailedMint(userID, now); err != nil {
			return nil, err
		}
		rollErr := &MintRollError{
			Attempt:    collector.ConsecutiveFails + 1,
			NextMintAt: now.Add(s.cfg.MintCooldown),
		}
		s.publish("nfd.mint_failed", map[string]interface{}{
			"user_id": userID,
			"attempt": rollErr.Ordinal(),
		})
		return nil, rollErr
	}

	// Roll succeeded: apply the side effects before committing anything
	// else. A failure from here on is reported, but the cooldown stays
	// consumed so induced failures cannot farm extra rolls.
	if err := s.collectorRepo.RecordSuccessfulMint(userID, now); err != nil {
		return nil, err
	}

	img, err := s.composer.Compose(parts.Body, parts.Mouth, parts.Eyes)
	if err != nil {
		return nil, fmt.Errorf("composing NFD %s: %w", name, err)
	}
	filename := filepath.Join(s.cfg.OutputPath, name+".png")
	if err := s.composer.Save(img, filename); err != nil {
		return nil, fmt.Errorf("saving NFD %s: %w", name, err)
	}

	nfd := &models.NFD{
		Code:           parts.Code,
		Name:           name,
		Filename:       filename,
		Owner:          userID,
		PreviousOwners: userID,
		MintedAt:       now,
	}
	if err := s.nfdRepo.Create(nfd); err != nil {
		// A concurrent mint can win the race between our uniqueness probe
		// and this create; the duplicate error from the store's unique
		// constraints is surfaced as-is.
		return nil, err
	}

	s.publish("nfd.minted", map[string]interface{}{
		"name":    nfd.Name,
		"code":    nfd.Code,
		"owner":   nfd.Owner,
		"minted":  nfd.MintedAt,
		"attempt": collector.ConsecutiveFails + 1,
	})

	return nfd, nil
}

// generateUnique picks fragment combinations until both the code and the
// derived name are unregistered, bounded by MaxMintAttempts. Collisions are
// expected and logged as recoverable.
func (s *MintService) generateUnique() (generator.Parts, string, error) {
	bodies, err := s.catalog.List(assets.KindBody)
	if err != nil {
		return generator.Parts{}, "", err
	}
	mouths, err := s.catalog.List(assets.KindMouth)
	if err != nil {
		return generator.Parts{}, "", err
	}
	eyes, err := s.catalog.List(assets.KindEyes)
	if err != nil {
		return generator.Parts{}, "", err
	}

	for attempt := 0; attempt < s.cfg.MaxMintAttempts; attempt++ {
		parts, err := generator.Pick(bodies, mouths, eyes)
		if err != nil {
			return generator.Parts{}, "", err
		}

		if _, err := s.nfdRepo.GetByCode(parts.Code); err == nil {
			log.Printf("mint: code %s already exists, retrying", parts.Code)
			continue
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return generator.Parts{}, "", err
		}

		name := generator.Name(parts)
		if clash, err := s.nfdRepo.GetByName(name); err == nil {
			log.Printf("mint: code %s is unique but name %s clashes with existing code %s, retrying",
				parts.Code, name, clash.Code)
			continue
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return generator.Parts{}, "", err
		}

		return parts, name, nil
	}

	return generator.Parts{}, "", ErrExhaustedAttempts
}

func (s *MintService) publish(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
