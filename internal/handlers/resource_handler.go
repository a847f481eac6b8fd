package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
)

const announcementLimit = 20

type announcementReader interface {
	ListForCoaches(ctx context.Context, limit int) ([]models.AdminPost, error)
}

type locationReader interface {
	List(ctx context.Context) ([]models.Location, error)
}

// ResourceHandler serves the read-only club content shown in the panel:
// admin announcements and facility locations.
type ResourceHandler struct {
	announcements announcementReader
	locations     locationReader
}

func NewResourceHandler(
	announcementRepo *repository.AnnouncementRepository,
	locationRepo *repository.LocationRepository,
) *ResourceHandler {
	return &ResourceHandler{
		announcements: announcementRepo,
		locations:     locationRepo,
	}
}

func (h *ResourceHandler) ListAnnouncements(c *fiber.Ctx) error {
	posts, err := h.announcements.ListForCoaches(c.Context(), announcementLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch announcements"})
	}
	return c.JSON(fiber.Map{"announcements": posts})
}

func (h *ResourceHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.locations.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch locations"})
	}
	return c.JSON(fiber.Map{"locations": locations})
}
