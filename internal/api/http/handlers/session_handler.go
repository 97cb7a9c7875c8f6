package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-intake/internal/api/dto"
	"github.com/spec-kit/support-intake/internal/auth"
)

// SessionHandler issues intake session tokens.
type SessionHandler struct {
	tokens *auth.TokenManager
}

// NewSessionHandler constructs handler.
func NewSessionHandler(tokens *auth.TokenManager) *SessionHandler {
	return &SessionHandler{tokens: tokens}
}

// Issue GET /intake/session.
func (h *SessionHandler) Issue(c *fiber.Ctx) error {
	session, err := h.tokens.IssueSession()
	if err != nil {
		return err
	}
	return c.JSON(dto.SessionResponse{
		Token:     session.Token,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt.UTC(),
	})
}
