package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-intake/internal/auth"
	"github.com/spec-kit/support-intake/internal/service"
	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

// CompletionHandler serves the completion proxy.
type CompletionHandler struct {
	service *service.CompletionService
}

// NewCompletionHandler constructs handler.
func NewCompletionHandler(completionService *service.CompletionService) *CompletionHandler {
	return &CompletionHandler{service: completionService}
}

// Generate POST /generate-questions.php. The upstream body is written unchanged.
func (h *CompletionHandler) Generate(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return apperrors.NewMethodNotAllowed()
	}

	result, err := h.service.Generate(c.UserContext(), service.GenerateInput{
		Body:      c.Body(),
		SessionID: auth.SessionIDFromContext(c),
	})
	if err != nil {
		return err
	}

	if result.Cached {
		c.Set("X-Cache", "HIT")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(result.Body)
}
