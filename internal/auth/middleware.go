package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

// SessionHeader carries the intake session token.
const SessionHeader = "X-Intake-Session"

const sessionKey = "intake_session_id"

// SessionMiddleware resolves the intake session for completion requests.
type SessionMiddleware struct {
	tokens   *TokenManager
	required bool
}

// NewSessionMiddleware constructs middleware. When required is false a
// request without a token passes through anonymously.
func NewSessionMiddleware(tokens *TokenManager, required bool) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, required: required}
}

// Handle validates the session header when present.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Get(SessionHeader))
	if raw == "" {
		if m.required {
			return apperrors.NewUnauthorized("Intake session required")
		}
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("Invalid intake session")
	}

	c.Locals(sessionKey, claims.SessionID())
	return c.Next()
}

// SessionIDFromContext returns the session id stored by Handle, or "".
func SessionIDFromContext(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionKey).(string)
	return id
}
