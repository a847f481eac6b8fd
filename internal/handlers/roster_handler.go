package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
)

type rosterReader interface {
	ListByCoach(ctx context.Context, coachID int64) ([]models.Roster, error)
	GetByID(ctx context.Context, id string) (*models.Roster, error)
}

type RosterHandler struct {
	rosters rosterReader
}

func NewRosterHandler(rosterRepo *repository.RosterRepository) *RosterHandler {
	return &RosterHandler{rosters: rosterRepo}
}

func (h *RosterHandler) ListRosters(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	rosters, err := h.rosters.ListByCoach(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch rosters"})
	}
	return c.JSON(fiber.Map{"rosters": rosters})
}

func (h *RosterHandler) GetRoster(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	rosterID := c.Params("id")
	if !validUUID(rosterID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Roster not found"})
	}

	roster, err := h.rosters.GetByID(c.Context(), rosterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Roster not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch roster"})
	}
	if roster.CoachID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your roster"})
	}
	return c.JSON(fiber.Map{"roster": roster})
}
