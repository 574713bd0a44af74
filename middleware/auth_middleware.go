package middleware

import (
	"strconv"

	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

const actorKey = "actor"

func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(secret),
		SigningMethod:  "HS256",
		ErrorHandler:   jwtError,
		SuccessHandler: storeActor,
	})
}

// OptionalAuth identifies the caller when an Authorization header is sent and lets anonymous requests through.
func OptionalAuth(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		SigningKey:     []byte(secret),
		SigningMethod:  "HS256",
		ErrorHandler:   jwtError,
		SuccessHandler: storeActor,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// storeActor turns the verified claims into a services.Actor for the handlers.
func storeActor(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return jwtError(c, jwt.ErrTokenMalformed)
	}
	actor, ok := ActorFromClaims(token.Claims)
	if !ok {
		return jwtError(c, jwt.ErrTokenMalformed)
	}
	c.Locals(actorKey, actor)
	return c.Next()
}

// ActorFromClaims reads user_id and role from a token issued by the auth service.
func ActorFromClaims(claims jwt.Claims) (services.Actor, bool) {
	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return services.Actor{}, false
	}
	rawID, _ := mapClaims["user_id"].(string)
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		return services.Actor{}, false
	}
	role := models.Role(toString(mapClaims["role"]))
	if !role.Valid() {
		return services.Actor{}, false
	}
	return services.Actor{UserID: uint(id), Role: role}, true
}

// CurrentActor is the zero Actor on routes without Protected.
func CurrentActor(c *fiber.Ctx) services.Actor {
	actor, _ := c.Locals(actorKey).(services.Actor)
	return actor
}

// SetActor is used by tests and by routes that authenticate some other way.
func SetActor(c *fiber.Ctx, actor services.Actor) {
	c.Locals(actorKey, actor)
}

func AdminRequired() fiber.Handler {
	return requireRole(models.RoleAdmin, "Forbidden: Admin access required")
}

func CoachRequired() fiber.Handler {
	return requireRole(models.RoleCoach, "Forbidden: Coach access required")
}

func StudentRequired() fiber.Handler {
	return requireRole(models.RoleStudent, "Forbidden: Student access required")
}

func requireRole(role models.Role, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentActor(c).Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": message,
			})
		}
		return c.Next()
	}
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}
