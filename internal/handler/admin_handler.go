package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/cssprep-api/internal/dto"
	"github.com/noah-isme/cssprep-api/internal/service"
	"github.com/noah-isme/cssprep-api/internal/utils"
)

// AdminHandler exposes essay oversight and subscription overrides for administrators.
type AdminHandler struct {
	essays   service.EssayService
	profiles service.ProfileService
	logger   zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(essays service.EssayService, profiles service.ProfileService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		essays:   essays,
		profiles: profiles,
		logger:   logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires the admin endpoints. The caller is responsible for the role guard.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/essays", h.listEssays)
	router.Patch("/profiles/:id/subscription", h.updateSubscription)
}

func (h *AdminHandler) listEssays(c *fiber.Ctx) error {
	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	source := c.Query("source")
	if source != "" && source != "ai" && source != "fallback" {
		return utils.SendError(c, fiber.StatusBadRequest, "source must be ai or fallback")
	}

	response, err := h.essays.ListAll(c.UserContext(), source, page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "essays retrieved", response)
}

func (h *AdminHandler) updateSubscription(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubscriptionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.profiles.UpdateSubscription(c.UserContext(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	requestLogger(h.logger, c).Info().
		Uint("admin_id", userIDFromContext(c)).
		Uint("profile_id", id).
		Str("status", response.SubscriptionStatus).
		Msg("subscription updated by admin")

	return utils.SendSuccess(c, "subscription updated", response)
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, sendErr := sendValidationError(c, err); handled {
		return sendErr
	}

	if errors.Is(err, service.ErrProfileNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	}

	requestLogger(h.logger, c).Error().Err(err).Msg("admin operation failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
