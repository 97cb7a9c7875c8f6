package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-intake/internal/api/dto"
	"github.com/spec-kit/support-intake/internal/config"
	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

// ConfigHandler exposes non-secret client configuration.
type ConfigHandler struct {
	webhook config.WebhookConfig
}

// NewConfigHandler constructs handler.
func NewConfigHandler(webhook config.WebhookConfig) *ConfigHandler {
	return &ConfigHandler{webhook: webhook}
}

// Get GET /get-config.php.
func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodGet {
		return apperrors.NewMethodNotAllowed()
	}
	return c.JSON(dto.ConfigResponse{WebhookURL: h.webhook.URL, Status: "success"})
}
