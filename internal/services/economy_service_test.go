package services_test

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nfd/internal/models"
	"nfd/internal/repositories"
	"nfd/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newEconomyService(nfdRepo *MockNFDRepository, collectorRepo *MockCollectorRepository,
	composer *MockComposer, outputPath string) *services.EconomyService {

	cfg := services.DefaultConfig()
	if outputPath != "" {
		cfg.OutputPath = outputPath
	}
	svc := services.NewEconomyService(nfdRepo, collectorRepo, composer, nil, cfg)
	svc.Now = func() time.Time { return testClock }
	return svc
}

func ownersChain(n int) string {
	owners := make([]string, n)
	for i := range owners {
		owners[i] = "user"
	}
	return strings.Join(owners, ",")
}

func TestEconomyService_Price(t *testing.T) {
	svc := newEconomyService(new(MockNFDRepository), new(MockCollectorRepository), new(MockComposer), "")

	tests := []struct {
		owners int // history length; transfers = owners - 1
		want   int64
	}{
		{1, 1},           // freshly minted
		{2, 2},           // one gift
		{4, 8},           // three gifts
		{31, 1 << 30},    // at the cap
		{41, 1 << 30},    // past the cap: price stops growing
	}

	for _, tt := range tests {
		nfd := &models.NFD{PreviousOwners: ownersChain(tt.owners)}
		assert.Equal(t, tt.want, svc.Price(nfd), "owners=%d", tt.owners)
	}
}

func TestEconomyService_Gift(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	nfd := &models.NFD{Name: "rexoarbigue", Owner: "alice", PreviousOwners: "alice"}
	collectorRepo.On("GetOrCreate", "alice").Return(&models.Collector{ID: "alice"}, nil).Once()
	nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()
	nfdRepo.On("TransferOwnership", "rexoarbigue", "bob").Return(nil).Once()
	collectorRepo.On("RecordGift", "alice", testClock).Return(nil).Once()

	result, err := svc.Gift("rexoarbigue", "alice", "bob", false)
	assert.NoError(t, err)
	assert.Equal(t, "bob", result.Owner)
	assert.Equal(t, "alice,bob", result.PreviousOwners)
	assert.Equal(t, 1, result.TransferCount())

	nfdRepo.AssertExpectations(t)
	collectorRepo.AssertExpectations(t)
}

func TestEconomyService_Gift_CooldownActive(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	lastGift := testClock.Add(-10 * time.Second)
	collectorRepo.On("GetOrCreate", "alice").
		Return(&models.Collector{ID: "alice", LastGiftGiven: lastGift}, nil).Once()

	_, err := svc.Gift("rexoarbigue", "alice", "bob", false)

	var cooldownErr *services.CooldownError
	assert.True(t, errors.As(err, &cooldownErr))
	assert.Equal(t, "gift", cooldownErr.Action)
	assert.Equal(t, lastGift.Add(time.Minute), cooldownErr.AvailableAt)
	nfdRepo.AssertNotCalled(t, "TransferOwnership", mock.Anything, mock.Anything)
}

func TestEconomyService_Gift_SelfGift(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	collectorRepo.On("GetOrCreate", "alice").Return(&models.Collector{ID: "alice"}, nil).Once()

	_, err := svc.Gift("rexoarbigue", "alice", "alice", false)
	assert.True(t, errors.Is(err, services.ErrSelfGift))
}

func TestEconomyService_Gift_NotOwner(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	collectorRepo.On("GetOrCreate", "mallory").Return(&models.Collector{ID: "mallory"}, nil).Once()
	nfd := &models.NFD{Name: "rexoarbigue", Owner: "alice", PreviousOwners: "alice"}
	nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()

	_, err := svc.Gift("rexoarbigue", "mallory", "bob", false)
	assert.True(t, errors.Is(err, services.ErrNotOwner))
	nfdRepo.AssertNotCalled(t, "TransferOwnership", mock.Anything, mock.Anything)
}

func TestEconomyService_Gift_NotFound(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	collectorRepo.On("GetOrCreate", "alice").Return(&models.Collector{ID: "alice"}, nil).Once()
	nfdRepo.On("GetByName", "missing").Return(nil, repositories.ErrNotFound).Once()

	_, err := svc.Gift("missing", "alice", "bob", false)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestEconomyService_Gift_SudoOverridesEverything(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	// Sudo gifts skip the cooldown, the self-gift check and the ownership
	// check, and never stamp the gift cooldown.
	nfd := &models.NFD{Name: "rexoarbigue", Owner: "alice", PreviousOwners: "alice"}
	nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()
	nfdRepo.On("TransferOwnership", "rexoarbigue", "bob").Return(nil).Once()

	result, err := svc.Gift("rexoarbigue", "moderator", "bob", true)
	assert.NoError(t, err)
	assert.Equal(t, "bob", result.Owner)

	collectorRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything)
	collectorRepo.AssertNotCalled(t, "RecordGift", mock.Anything, mock.Anything)
}

func TestEconomyService_Reassign(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	nfd := &models.NFD{Name: "rexoarbigue", Owner: "alice", PreviousOwners: "alice"}
	nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()
	nfdRepo.On("TransferOwnership", "rexoarbigue", "carol").Return(nil).Once()

	result, err := svc.Reassign("rexoarbigue", "carol", "moderator")
	assert.NoError(t, err)
	assert.Equal(t, "carol", result.Owner)
	collectorRepo.AssertNotCalled(t, "RecordGift", mock.Anything, mock.Anything)
}

func TestEconomyService_Rename(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	nfd := &models.NFD{Name: "rexoarbigue", Owner: "alice", PreviousOwners: "alice"}
	collectorRepo.On("GetOrCreate", "alice").Return(&models.Collector{ID: "alice"}, nil).Once()
	nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()
	nfdRepo.On("GetByName", "Rexosaur").Return(nil, repositories.ErrNotFound).Once()
	nfdRepo.On("Rename", "rexoarbigue", "Rexosaur").Return(nil).Once()
	collectorRepo.On("RecordRename", "alice", testClock).Return(nil).Once()

	result, err := svc.Rename("rexoarbigue", "Rexosaur", "alice")
	assert.NoError(t, err)
	assert.Equal(t, "Rexosaur", result.Name)

	nfdRepo.AssertExpectations(t)
	collectorRepo.AssertExpectations(t)
}

func TestEconomyService_Rename_InvalidNames(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	invalid := []string{
		"",
		"abc",              // too short
		"abcde",            // still too short
		"abcdefghijklmnop", // 16 characters, too long
		"has space",
		"semi;colon",
		"dash-name",
		"ünïcode",
	}

	for _, name := range invalid {
		_, err := svc.Rename("rexoarbigue", name, "alice")
		assert.True(t, errors.Is(err, services.ErrInvalidName), "name=%q", name)
	}

	// Validation happens before anything else: no repository traffic.
	collectorRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything)
	nfdRepo.AssertNotCalled(t, "GetByName", mock.Anything)
}

func TestEconomyService_Rename_BoundaryLengthsAreValid(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	for _, name := range []string{"sixsix", "exactlyfifteen1"} {
		nfd := &models.NFD{Name: "rexoarbigue", Owner: "alice", PreviousOwners: "alice"}
		collectorRepo.On("GetOrCreate", "alice").Return(&models.Collector{ID: "alice"}, nil).Once()
		nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()
		nfdRepo.On("GetByName", name).Return(nil, repositories.ErrNotFound).Once()
		nfdRepo.On("Rename", "rexoarbigue", name).Return(nil).Once()
		collectorRepo.On("RecordRename", "alice", testClock).Return(nil).Once()

		_, err := svc.Rename("rexoarbigue", name, "alice")
		assert.NoError(t, err, "name=%q", name)
	}
}

func TestEconomyService_Rename_CooldownActive(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	lastRename := testClock.Add(-5 * time.Second)
	collectorRepo.On("GetOrCreate", "alice").
		Return(&models.Collector{ID: "alice", LastRename: lastRename}, nil).Once()

	_, err := svc.Rename("rexoarbigue", "Rexosaur", "alice")

	var cooldownErr *services.CooldownError
	assert.True(t, errors.As(err, &cooldownErr))
	assert.Equal(t, "rename", cooldownErr.Action)
	assert.Equal(t, lastRename.Add(time.Minute), cooldownErr.AvailableAt)
}

func TestEconomyService_Rename_NotOwner(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	collectorRepo.On("GetOrCreate", "mallory").Return(&models.Collector{ID: "mallory"}, nil).Once()
	nfd := &models.NFD{Name: "rexoarbigue", Owner: "alice", PreviousOwners: "alice"}
	nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()

	_, err := svc.Rename("rexoarbigue", "Rexosaur", "mallory")
	assert.True(t, errors.Is(err, services.ErrNotOwner))
}

func TestEconomyService_Rename_DuplicateName(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(nfdRepo, collectorRepo, new(MockComposer), "")

	collectorRepo.On("GetOrCreate", "alice").Return(&models.Collector{ID: "alice"}, nil).Once()
	nfd := &models.NFD{Name: "rexoarbigue", Owner: "alice", PreviousOwners: "alice"}
	taken := &models.NFD{Name: "Rexosaur", Owner: "bob"}
	nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()
	nfdRepo.On("GetByName", "Rexosaur").Return(taken, nil).Once()

	_, err := svc.Rename("rexoarbigue", "Rexosaur", "alice")
	assert.True(t, errors.Is(err, repositories.ErrDuplicateName))
	nfdRepo.AssertNotCalled(t, "Rename", mock.Anything, mock.Anything)
}

func TestEconomyService_Purge(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	svc := newEconomyService(nfdRepo, new(MockCollectorRepository), new(MockComposer), "")

	nfd := &models.NFD{Name: "rexoarbigue", Code: "rex_b.png,roar_m.png,big_e.png"}
	nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()
	nfdRepo.On("Delete", "rexoarbigue").Return(nil).Once()

	assert.NoError(t, svc.Purge("rexoarbigue"))
	nfdRepo.AssertExpectations(t)

	nfdRepo.On("GetByName", "missing").Return(nil, repositories.ErrNotFound).Once()
	assert.True(t, errors.Is(svc.Purge("missing"), repositories.ErrNotFound))
}

func TestEconomyService_ResetCooldown(t *testing.T) {
	collectorRepo := new(MockCollectorRepository)
	svc := newEconomyService(new(MockNFDRepository), collectorRepo, new(MockComposer), "")

	for _, which := range []models.Cooldown{
		models.CooldownMint, models.CooldownRename, models.CooldownGift, models.CooldownAll,
	} {
		collectorRepo.On("ResetCooldowns", "alice", which).Return(nil).Once()
		assert.NoError(t, svc.ResetCooldown("alice", which))
	}
	collectorRepo.AssertExpectations(t)

	assert.Error(t, svc.ResetCooldown("alice", models.Cooldown("NAP")))
	collectorRepo.AssertNotCalled(t, "ResetCooldowns", "alice", models.Cooldown("NAP"))
}

func TestEconomyService_View_ExistingImage(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	composer := new(MockComposer)
	svc := newEconomyService(nfdRepo, new(MockCollectorRepository), composer, "")

	// A file that actually exists: no recomposition needed.
	imagePath := filepath.Join(t.TempDir(), "rexoarbigue.png")
	assert.NoError(t, os.WriteFile(imagePath, []byte("png"), 0o644))

	nfd := &models.NFD{
		Name:           "rexoarbigue",
		Code:           "rex_b.png,roar_m.png,big_e.png",
		Filename:       imagePath,
		Owner:          "alice",
		PreviousOwners: "alice,bob",
	}
	nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()

	result, err := svc.View("rexoarbigue")
	assert.NoError(t, err)
	assert.Equal(t, imagePath, result.ImagePath)
	assert.Equal(t, int64(2), result.Price)
	composer.AssertNotCalled(t, "Compose", mock.Anything, mock.Anything, mock.Anything)
}

func TestEconomyService_View_RecomposesMissingImage(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	composer := new(MockComposer)
	outputPath := t.TempDir()
	svc := newEconomyService(nfdRepo, new(MockCollectorRepository), composer, outputPath)

	nfd := &models.NFD{
		Name:           "rexoarbigue",
		Code:           "rex_b.png,roar_m.png,big_e.png",
		Filename:       "/nonexistent/rexoarbigue.png",
		Owner:          "alice",
		PreviousOwners: "alice",
	}
	nfdRepo.On("GetByName", "rexoarbigue").Return(nfd, nil).Once()

	canvas := image.NewRGBA(image.Rect(0, 0, 1, 1))
	newPath := filepath.Join(outputPath, "rexoarbigue.png")
	composer.On("Compose", "rex_b.png", "roar_m.png", "big_e.png").Return(canvas, nil).Once()
	composer.On("Save", canvas, newPath).Return(nil).Once()
	nfdRepo.On("UpdateFilename", "rexoarbigue", newPath).Return(nil).Once()

	result, err := svc.View("rexoarbigue")
	assert.NoError(t, err)
	assert.Equal(t, newPath, result.ImagePath)
	composer.AssertExpectations(t)
	nfdRepo.AssertExpectations(t)
}

func TestEconomyService_Collection_Empty(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	svc := newEconomyService(nfdRepo, new(MockCollectorRepository), new(MockComposer), "")

	nfdRepo.On("GetByOwner", "alice").Return([]models.NFD{}, nil).Once()

	result, err := svc.Collection("alice")
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Owned)
	assert.Empty(t, result.Shown)
	assert.Zero(t, result.TotalValue)
}

func TestEconomyService_Collection_CapsListingAndSumsValue(t *testing.T) {
	nfdRepo := new(MockNFDRepository)
	composer := new(MockComposer)
	svc := newEconomyService(nfdRepo, new(MockCollectorRepository), composer, "")

	// Every NFD shares one existing image so no recomposition happens
	// regardless of which one the shuffle puts first.
	imagePath := filepath.Join(t.TempDir(), "shared.png")
	assert.NoError(t, os.WriteFile(imagePath, []byte("png"), 0o644))

	nfds := make([]models.NFD, 12)
	for i := range nfds {
		nfds[i] = models.NFD{
			Name:           "nfd" + string(rune('a'+i)),
			Owner:          "alice",
			PreviousOwners: "alice",
			Filename:       imagePath,
		}
	}
	nfdRepo.On("GetByOwner", "alice").Return(nfds, nil).Once()

	result, err := svc.Collection("alice")
	assert.NoError(t, err)
	assert.Equal(t, 12, result.Owned)
	assert.Len(t, result.Shown, 10)
	assert.Equal(t, 2, result.Remainder)
	assert.Equal(t, int64(12), result.TotalValue) // 12 unmoved NFDs at price 1
	assert.Equal(t, imagePath, result.ShowcaseImage)
	composer.AssertNotCalled(t, "Compose", mock.Anything, mock.Anything, mock.Anything)
}
