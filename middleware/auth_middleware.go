package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/utils"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:      services.VerificationKey,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return utils.Fail(c, fiber.StatusUnauthorized, "Authorization token is required")
	}
	return utils.Fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
}

// CurrentUser returns the caller authenticated by Protected.
func CurrentUser(c *fiber.Ctx) (services.Identity, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return services.Identity{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return services.Identity{}, false
	}
	who, err := services.IdentityFromClaims(claims)
	if err != nil {
		return services.Identity{}, false
	}
	return who, true
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, ok := CurrentUser(c)
		if !ok {
			return utils.Fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}
		for _, role := range roles {
			if who.Role == role {
				return c.Next()
			}
		}
		return utils.Fail(c, fiber.StatusForbidden, "Forbidden: insufficient role")
	}
}

func AdminRequired() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}

// SelfOrAdmin allows the account named by the route parameter, or an admin.
func SelfOrAdmin(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, ok := CurrentUser(c)
		if !ok {
			return utils.Fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}
		if who.Role == models.RoleAdmin {
			return c.Next()
		}
		id, err := uuid.Parse(c.Params(param))
		if err != nil || id != who.ID {
			return utils.Fail(c, fiber.StatusForbidden, "Forbidden: you can only act on your own account")
		}
		return c.Next()
	}
}
