package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/trentd187/open-invitational/internal/middleware"
)

// Small helpers shared by every handler file so error responses stay uniform:
// every failure is {"error": "..."} with the appropriate status code.

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": msg})
}

func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

// currentUser pulls the authenticated user's ID out of the request context.
// The Auth middleware guarantees it is present on protected routes, so a
// false return means a wiring bug; callers respond with a 401 rather than
// panicking.
func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	return middleware.UserID(c)
}

// parseUUIDParam reads a route parameter and parses it as a UUID.
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}
