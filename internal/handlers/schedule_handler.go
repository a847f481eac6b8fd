package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/services"
)

type scheduleApplicationService interface {
	ListSchedule(ctx context.Context, coachID int64) ([]services.ScheduleItem, error)
	CreatePractice(ctx context.Context, coachID int64, input services.CreatePracticeInput) (*models.Event, error)
	ReportScore(ctx context.Context, coachID int64, input services.ReportScoreInput) (*models.GameResult, error)
}

type ScheduleHandler struct {
	service scheduleApplicationService
}

func NewScheduleHandler(service *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

func (h *ScheduleHandler) ListSchedule(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	items, err := h.service.ListSchedule(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch schedule"})
	}
	return c.JSON(fiber.Map{"schedule": items})
}

type createPracticeRequest struct {
	RosterID        string  `json:"roster_id"`
	Title           string  `json:"title"`
	Location        *string `json:"location"`
	Date            string  `json:"date"`
	DurationMinutes int     `json:"duration_minutes"`
	Notes           *string `json:"notes"`
}

func (h *ScheduleHandler) CreatePractice(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	var req createPracticeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid date, expected RFC3339"})
	}
	if !validUUID(req.RosterID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Roster not found"})
	}

	event, err := h.service.CreatePractice(c.Context(), userID, services.CreatePracticeInput{
		RosterID:        req.RosterID,
		Title:           req.Title,
		Location:        req.Location,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid practice details"})
		case errors.Is(err, services.ErrRosterNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Roster not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your roster"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to create practice"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"practice": event})
}

type reportScoreRequest struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

func (h *ScheduleHandler) ReportScore(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	gameID := c.Params("id")
	if !validUUID(gameID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found"})
	}

	var req reportScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.ReportScore(c.Context(), userID, services.ReportScoreInput{
		GameID:    gameID,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid score"})
		case errors.Is(err, services.ErrGameNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your game"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to report score"})
		}
	}
	return c.JSON(fiber.Map{"result": result})
}
