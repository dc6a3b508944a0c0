package handlers

import (
	"log"

	"nfd/internal/models"
	"nfd/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ModHandler handles the moderator-only operations. Its routes must be
// registered behind the SuperUserOnly middleware.
type ModHandler struct {
	economyService *services.EconomyService
}

// NewModHandler creates a new ModHandler.
func NewModHandler(economyService *services.EconomyService) *ModHandler {
	return &ModHandler{
		economyService: economyService,
	}
}

// RegisterRoutes registers the moderator routes with the Fiber app.
func (h *ModHandler) RegisterRoutes(router fiber.Router) {
	modRoutes := router.Group("/mod")
	modRoutes.Delete("/nfds/:name", h.HandlePurge)
	modRoutes.Post("/nfds/:name/reassign", h.HandleReassign)
	modRoutes.Post("/cooldowns/reset", h.HandleResetCooldown)
}

// HandlePurge deletes an NFD outright.
func (h *ModHandler) HandlePurge(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := h.economyService.Purge(name); err != nil {
		log.Printf("Error purging NFD %s: %v", name, err)
		return replyError(c, "Could not purge NFD", err)
	}
	return c.JSON(fiber.Map{
		"message": name + " has been deleted.",
	})
}

// ReassignRequest is the request body for a forced ownership change.
type ReassignRequest struct {
	Recipient string `json:"recipient"`
}

// HandleReassign forcibly hands an NFD to a new owner.
func (h *ModHandler) HandleReassign(c *fiber.Ctx) error {
	name := c.Params("name")

	var req ReassignRequest
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

	moderator := callerID(c)
	nfd, err := h.economyService.Reassign(name, req.Recipient, moderator)
	if err != nil {
		log.Printf("Error reassigning NFD %s to %s: %v", name, req.Recipient, err)
		return replyError(c, "Could not reassign NFD", err)
	}

	return c.JSON(fiber.Map{
		"nfd":   nfd,
		"price": h.economyService.Price(nfd),
	})
}

// ResetCooldownRequest is the request body for a cooldown reset.
type ResetCooldownRequest struct {
	UserID   string `json:"user_id"`
	Cooldown string `json:"cooldown"` // MINT, RENAME, GIFT or ALL
}

// HandleResetCooldown zeroes a user's cooldown stamps.
func (h *ModHandler) HandleResetCooldown(c *fiber.Ctx) error {
	var req ResetCooldownRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	which := models.Cooldown(req.Cooldown)
	if req.UserID == "" || !which.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "user_id and a cooldown of MINT, RENAME, GIFT or ALL are required.",
		})
	}

	if err := h.economyService.ResetCooldown(req.UserID, which); err != nil {
		log.Printf("Error resetting %s cooldown for %s: %v", which, req.UserID, err)
		return replyError(c, "Could not reset cooldown", err)
	}

	return c.JSON(fiber.Map{
		"message": "Reset " + req.Cooldown + " cooldown for " + req.UserID + ".",
	})
}
