package middleware

import (
	"lookbook-service/internal/service"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// RequireAuth resolves the bearer token of /protected routes to an owner ID.
func RequireAuth(jwtService *service.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not authenticated",
			})
		}

		claims, err := jwtService.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("userEmail", claims.Email)
		return c.Next()
	}
}

// OwnerID returns the authenticated user's ID set by RequireAuth.
func OwnerID(c fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}
