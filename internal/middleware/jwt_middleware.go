package middleware

import (
	"errors"
	"strings"

	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const principalKey = "principal"

var (
	errMissingHeader = errors.New("authorization header is required")
	errBadScheme     = errors.New("authorization header format must be 'Bearer <token>'")
)

// Principal identifies the user behind an authenticated request.
type Principal struct {
	UserID   uint
	Username string
}

// CurrentPrincipal returns the principal stored by AuthRequired, if any.
func CurrentPrincipal(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(principalKey).(Principal)
	return p, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errBadScheme
	}
	return token, nil
}

// AuthRequired rejects requests without a valid bearer JWT and stores the
// caller's Principal in the request locals.
func AuthRequired(authService *services.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			logger.Debug("rejected bearer token", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		p := Principal{}
		if id, ok := claims["user_id"].(float64); ok && id > 0 {
			p.UserID = uint(id)
		}
		p.Username, _ = claims["username"].(string)
		c.Locals(principalKey, p)
		return c.Next()
	}
}
