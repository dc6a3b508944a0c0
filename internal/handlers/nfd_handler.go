package handlers

import (
	"errors"
	"log"

	"nfd/internal/assets"
	"nfd/internal/generator"
	"nfd/internal/repositories"
	"nfd/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NFDHandler handles HTTP requests for the collectible economy.
type NFDHandler struct {
	mintService    *services.MintService
	economyService *services.EconomyService
}

// NewNFDHandler creates a new NFDHandler.
func NewNFDHandler(mintService *services.MintService, economyService *services.EconomyService) *NFDHandler {
	return &NFDHandler{
		mintService:    mintService,
		economyService: economyService,
	}
}

// RegisterRoutes registers the NFD routes with the Fiber app. All routes
// assume AuthRequired has populated the caller locals.
func (h *NFDHandler) RegisterRoutes(router fiber.Router) {
	nfdRoutes := router.Group("/nfds")
	nfdRoutes.Post("/mint", h.HandleMint)
	nfdRoutes.Get("/:name", h.HandleView)
	nfdRoutes.Post("/:name/gift", h.HandleGift)
	nfdRoutes.Post("/:name/rename", h.HandleRename)

	router.Get("/collections", h.HandleCollection)
	router.Get("/collections/:owner", h.HandleCollection)
}

// HandleMint runs a mint attempt for the caller. A failed roll is a normal
// outcome, not an HTTP error: the reply says which consecutive attempt
// failed and when the next one is allowed.
func (h *NFDHandler) HandleMint(c *fiber.Ctx) error {
	caller := callerID(c)

	nfd, err := h.mintService.Mint(caller)
	if err != nil {
		var rollErr *services.MintRollError
		if errors.As(err, &rollErr) {
			return c.JSON(fiber.Map{
				"minted":       false,
				"attempt":      rollErr.Ordinal(),
				"next_mint_at": rollErr.NextMintAt,
			})
		}
		log.Printf("Error minting for %s: %v", caller, err)
		return replyError(c, "Could not mint an NFD", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"minted":     true,
		"nfd":        nfd,
		"price":      h.economyService.Price(nfd),
		"image_path": nfd.Filename,
	})
}

// HandleView returns a single NFD with its price and image.
func (h *NFDHandler) HandleView(c *fiber.Ctx) error {
	name := c.Params("name")
	result, err := h.economyService.View(name)
	if err != nil {
		log.Printf("Error viewing NFD %s: %v", name, err)
		return replyError(c, "Could not view NFD", err)
	}
	return c.JSON(result)
}

// HandleCollection returns a user's collection summary; with no owner
// parameter it shows the caller's own.
func (h *NFDHandler) HandleCollection(c *fiber.Ctx) error {
	owner := c.Params("owner")
	if owner == "" {
		owner = callerID(c)
	}

	result, err := h.economyService.Collection(owner)
	if err != nil {
		log.Printf("Error fetching collection for %s: %v", owner, err)
		return replyError(c, "Could not fetch collection", err)
	}
	return c.JSON(result)
}

// GiftRequest is the request body for gifting an NFD.
type GiftRequest struct {
	Recipient string `json:"recipient"`
}

// HandleGift transfers the named NFD from the caller to the recipient.
func (h *NFDHandler) HandleGift(c *fiber.Ctx) error {
	name := c.Params("name")

	var req GiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Recipient is required.",
		})
	}

	caller := callerID(c)
	nfd, err := h.economyService.Gift(name, caller, req.Recipient, false)
	if err != nil {
		log.Printf("Error gifting NFD %s from %s to %s: %v", name, caller, req.Recipient, err)
		return replyError(c, "Could not gift NFD", err)
	}

	return c.JSON(fiber.Map{
		"nfd":   nfd,
		"price": h.economyService.Price(nfd),
	})
}

// RenameRequest is the request body for renaming an NFD.
type RenameRequest struct {
	Replacement string `json:"replacement"`
}

// HandleRename gives the caller's NFD a new name.
func (h *NFDHandler) HandleRename(c *fiber.Ctx) error {
	name := c.Params("name")

	var req RenameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	caller := callerID(c)
	nfd, err := h.economyService.Rename(name, req.Replacement, caller)
	if err != nil {
		log.Printf("Error renaming NFD %s for %s: %v", name, caller, err)
		return replyError(c, "Could not rename NFD", err)
	}

	return c.JSON(fiber.Map{"nfd": nfd})
}

// callerID pulls the authenticated user's identifier out of the context.
func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// replyError maps typed service failures onto HTTP statuses, keeping message
// formatting out of the services.
func replyError(c *fiber.Ctx, message string, err error) error {
	var cooldownErr *services.CooldownError

	status := fiber.StatusInternalServerError
	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}

	switch {
	case errors.As(err, &cooldownErr):
		status = fiber.StatusTooManyRequests
		body["available_at"] = cooldownErr.AvailableAt
	case errors.Is(err, repositories.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, repositories.ErrDuplicateCode),
		errors.Is(err, repositories.ErrDuplicateName),
		errors.Is(err, services.ErrExhaustedAttempts):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrNotOwner):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrSelfGift),
		errors.Is(err, services.ErrInvalidName):
		status = fiber.StatusBadRequest
	case errors.Is(err, assets.ErrCatalogUnavailable),
		errors.Is(err, generator.ErrEmptyCatalog):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(body)
}
