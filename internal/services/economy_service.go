package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"nfd/internal/generator"
	"nfd/internal/models"
	"nfd/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// EconomyService handles everything after the mint: pricing, gifting,
// renaming, collections and the moderator operations.
type EconomyService struct {
	nfdRepo       repositories.NFDRepository
	collectorRepo repositories.CollectorRepository
	composer      ImageComposer
	publisher     EventPublisher
	validate      *validator.Validate
	nameRule      string
	cfg           Config

	// Now defaults to the real clock; tests swap in a fixed one.
	Now func() time.Time
}

// NewEconomyService creates a new EconomyService.
func NewEconomyService(
	nfdRepo repositories.NFDRepository,
	collectorRepo repositories.CollectorRepository,
	composer ImageComposer,
	publisher EventPublisher,
	cfg Config,
) *EconomyService {
	return &EconomyService{
		nfdRepo:       nfdRepo,
		collectorRepo: collectorRepo,
		composer:      composer,
		publisher:     publisher,
		validate:      validator.New(),
		nameRule:      fmt.Sprintf("required,alphanum,min=%d,max=%d", cfg.MinNameLength, cfg.MaxNameLength),
		cfg:           cfg,
		Now:           time.Now,
	}
}

// Price computes an NFD's market price from its provenance: each completed
// transfer doubles it, capped so the value stays well inside int64.
func (s *EconomyService) Price(nfd *models.NFD) int64 {
	exp := nfd.TransferCount()
	if exp > s.cfg.MaxPriceExponent {
		exp = s.cfg.MaxPriceExponent
	}
	return 1 << exp
}

// Gift transfers an NFD from fromUser to toUser. Without sudo the gifter must
// own the NFD, must not be gifting to themselves, and must be off gift
// cooldown; sudo (the moderator reassign path) skips all three and leaves the
// gifter's cooldown untouched.
func (s *EconomyService) Gift(name, fromUser, toUser string, sudo bool) (*models.NFD, error) {
	now := s.Now()

	if !sudo {
		collector, err := s.collectorRepo.GetOrCreate(fromUser)
		if err != nil {
			return nil, err
		}
		availableAt := collector.LastGiftGiven.Add(s.cfg.GiftCooldown)
		if now.Before(availableAt) {
			return nil, &CooldownError{Action: "gift", AvailableAt: availableAt}
		}
		if fromUser == toUser {
			return nil, ErrSelfGift
		}
	}

	nfd, err := s.nfdRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if nfd.Owner != fromUser && !sudo {
		return nil, ErrNotOwner
	}

	if err := s.nfdRepo.TransferOwnership(name, toUser); err != nil {
		return nil, err
	}
	nfd.AppendOwner(toUser)

	if sudo {
		s.publish("nfd.reassigned", map[string]interface{}{
			"name": name, "by": fromUser, "to": toUser,
		})
	} else {
		if err := s.collectorRepo.RecordGift(fromUser, now); err != nil {
			return nil, err
		}
		s.publish("nfd.gifted", map[string]interface{}{
			"name": name, "from": fromUser, "to": toUser,
		})
	}

	return nfd, nil
}

// Reassign forcibly hands an NFD to newOwner. The route is moderator-gated;
// this is gift with sudo.
func (s *EconomyService) Reassign(name, newOwner, moderator string) (*models.NFD, error) {
	return s.Gift(name, moderator, newOwner, true)
}

// Rename gives an NFD a new display name chosen by its owner.
func (s *EconomyService) Rename(name, replacement, requester string) (*models.NFD, error) {
	if err := s.validate.Var(replacement, s.nameRule); err != nil {
		return nil, ErrInvalidName
	}

	collector, err := s.collectorRepo.GetOrCreate(requester)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	availableAt := collector.LastRename.Add(s.cfg.RenameCooldown)
	if now.Before(availableAt) {
		return nil, &CooldownError{Action: "rename", AvailableAt: availableAt}
	}

	nfd, err := s.nfdRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if nfd.Owner != requester {
		return nil, ErrNotOwner
	}

	if _, err := s.nfdRepo.GetByName(replacement); err == nil {
		return nil, repositories.ErrDuplicateName
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	// The unique index still backs this up if another rename races us here.
	if err := s.nfdRepo.Rename(name, replacement); err != nil {
		return nil, err
	}
	nfd.Name = replacement

	if err := s.collectorRepo.RecordRename(requester, now); err != nil {
		return nil, err
	}
	s.publish("nfd.renamed", map[string]interface{}{
		"old": name, "new": replacement, "by": requester,
	})

	return nfd, nil
}

// Purge removes an NFD unconditionally. The route is moderator-gated.
func (s *EconomyService) Purge(name string) error {
	nfd, err := s.nfdRepo.GetByName(name)
	if err != nil {
		return err
	}
	if err := s.nfdRepo.Delete(nfd.Name); err != nil {
		return err
	}
	s.publish("nfd.purged", map[string]interface{}{"name": nfd.Name, "code": nfd.Code})
	return nil
}

// ResetCooldown zeroes a user's targeted cooldown stamps, creating their
// collector record if needed. Moderator-gated.
func (s *EconomyService) ResetCooldown(userID string, which models.Cooldown) error {
	if !which.Valid() {
		return fmt.Errorf("unknown cooldown %q", which)
	}
	return s.collectorRepo.ResetCooldowns(userID, which)
}

// ViewResult is the structured reply for a single NFD, left to the
// presentation layer to format.
type ViewResult struct {
	NFD       *models.NFD `json:"nfd"`
	Price     int64       `json:"price"`
	ImagePath string      `json:"image_path"`
}

// View fetches an NFD with its current price and a guaranteed-present image.
func (s *EconomyService) View(name string) (*ViewResult, error) {
	nfd, err := s.nfdRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	imagePath, err := s.ensureImage(nfd)
	if err != nil {
		return nil, err
	}
	return &ViewResult{NFD: nfd, Price: s.Price(nfd), ImagePath: imagePath}, nil
}

// CollectionResult summarizes one user's holdings: a shuffled sample of at
// most MaxListed NFDs, the overflow count, and the collection's total value.
type CollectionResult struct {
	Owner         string       `json:"owner"`
	Owned         int          `json:"owned"`
	TotalValue    int64        `json:"total_value"`
	Shown         []models.NFD `json:"shown"`
	Remainder     int          `json:"remainder"`
	ShowcaseImage string       `json:"showcase_image,omitempty"`
}

// Collection assembles the collection view for a user. An empty collection
// is a valid result, not an error.
func (s *EconomyService) Collection(ownerID string) (*CollectionResult, error) {
	nfds, err := s.nfdRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	result := &CollectionResult{Owner: ownerID, Owned: len(nfds)}
	if len(nfds) == 0 {
		return result, nil
	}

	rand.Shuffle(len(nfds), func(i, j int) {
		nfds[i], nfds[j] = nfds[j], nfds[i]
	})

	for i := range nfds {
		result.TotalValue += s.Price(&nfds[i])
	}

	if len(nfds) > s.cfg.MaxListed {
		result.Shown = nfds[:s.cfg.MaxListed]
		result.Remainder = len(nfds) - s.cfg.MaxListed
	} else {
		result.Shown = nfds
	}

	showcase, err := s.ensureImage(&result.Shown[0])
	if err != nil {
		return nil, err
	}
	result.ShowcaseImage = showcase

	return result, nil
}

// ensureImage returns a path to the NFD's rendered image, recomposing it
// from the code when the stored file has gone missing.
func (s *EconomyService) ensureImage(nfd *models.NFD) (string, error) {
	if nfd.Filename != "" {
		if _, err := os.Stat(nfd.Filename); err == nil {
			return nfd.Filename, nil
		}
	}

	parts := generator.SplitCode(nfd.Code)
	img, err := s.composer.Compose(parts.Body, parts.Mouth, parts.Eyes)
	if err != nil {
		return "", fmt.Errorf("recomposing NFD %s: %w", nfd.Name, err)
	}
	path := filepath.Join(s.cfg.OutputPath, nfd.Name+".png")
	if err := s.composer.Save(img, path); err != nil {
		return "", fmt.Errorf("saving recomposed NFD %s: %w", nfd.Name, err)
	}
	if err := s.nfdRepo.UpdateFilename(nfd.Name, path); err != nil {
		return "", err
	}
	nfd.Filename = path
	return path, nil
}

func (s *EconomyService) publish(routingKey string, payload map[string]interface{}) {
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
