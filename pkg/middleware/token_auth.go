package middleware

import (
	"context"
	"regexp"
	"strings"

	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/wrapper"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TokenValidator reports whether a presented bearer token is currently valid.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (bool, error)
}

type TokenAuthConfig struct {
	// AllowInsecure lifts the HTTPS requirement. Only for debug deployments.
	AllowInsecure bool
}

// Some reverse proxies strip Authorization and forward it under another name.
var authHeaderCandidates = []string{
	fiber.HeaderAuthorization,
	"X-Forwarded-Authorization",
	"X-Original-Authorization",
}

var bearerPattern = regexp.MustCompile(`(?i)^\s*Bearer\s+(.+?)\s*$`)

const (
	msgMissingToken  = "API token is required. Include it in the Authorization header as: Authorization: Bearer YOUR_TOKEN"
	msgInvalidToken  = "Invalid or expired API token"
	msgHTTPSRequired = "HTTPS is required for API requests"
)

// BearerToken extracts the bearer token from the first header candidate that
// carries one. Returns "" when none does.
func BearerToken(c *fiber.Ctx) string {
	for _, name := range authHeaderCandidates {
		value := c.Get(name)
		if value == "" {
			continue
		}
		if m := bearerPattern.FindStringSubmatch(value); m != nil {
			return m[1]
		}
	}
	return ""
}

// BearerTokenAuth gates the agent update API. Checks run in a fixed order:
// token presence, token validity, then transport security.
func BearerTokenAuth(validator TokenValidator, cfg TokenAuthConfig, log *logger.CanonicalLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		token := BearerToken(c)
		if token == "" {
			log.Debug("missing bearer token",
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			return rejectAuth(c, ctx, fiber.StatusUnauthorized, models.CodeMissingToken, msgMissingToken)
		}

		ok, err := validator.Validate(ctx, strings.TrimSpace(token))
		if err != nil {
			log.Error("token validation failed",
				zap.Error(err),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "authentication failed",
			})
		}
		if !ok {
			log.Debug("invalid api token",
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			return rejectAuth(c, ctx, fiber.StatusUnauthorized, models.CodeInvalidToken, msgInvalidToken)
		}

		if !cfg.AllowInsecure && c.Protocol() != "https" {
			return rejectAuth(c, ctx, fiber.StatusForbidden, models.CodeHTTPSRequired, msgHTTPSRequired)
		}

		return c.Next()
	}
}

func rejectAuth(c *fiber.Ctx, ctx context.Context, status int, code, message string) error {
	logger.AddToContext(ctx, logger.String(logger.FieldAuthCode, code))
	res := wrapper.ResponseError(status, code, message)
	return c.Status(res.Code).JSON(res.Data)
}
