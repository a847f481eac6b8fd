package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// coachID extracts the authenticated coach's user id from the token claims
// placed in locals by the auth middleware.
func coachID(c *fiber.Ctx) (int64, bool) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return userID, true
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
}

// validUUID reports whether a path parameter can reach the database as a
// uuid column value. Rejecting early turns a cast error into a 404.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
