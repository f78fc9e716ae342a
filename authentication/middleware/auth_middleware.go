package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sakilahmmad71/railway-test-depl/authentication/blacklist"
	"github.com/sakilahmmad71/railway-test-depl/domain"
	"github.com/sakilahmmad71/railway-test-depl/internal/util"
)

// UserIDKey is the Locals key under which the authenticated user id is
// stored for downstream handlers.
const UserIDKey = "x-user-id"

// JwtAuthMiddleware verifies the bearer access token and rejects revoked
// ones before any handler runs.
func JwtAuthMiddleware(secret string, bl blacklist.Blacklist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Missing authorization header"))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Authorization header format must be Bearer {token}"))
		}
		token := parts[1]

		claims, err := util.VerifyAccessToken(token, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Not authorized or invalid token"))
		}

		revoked, err := bl.IsRevoked(c.UserContext(), token)
		if err != nil || revoked {
			return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Not authorized or invalid token"))
		}

		userID, err := util.ParseUserID(claims.ID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(domain.Error("Could not extract user from token"))
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}
