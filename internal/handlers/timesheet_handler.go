package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
)

const workDateLayout = "2006-01-02"

type timesheetStore interface {
	ListByCoach(ctx context.Context, coachID int64) ([]models.TimesheetEntry, error)
	Create(ctx context.Context, input repository.CreateTimesheetInput) (*models.TimesheetEntry, error)
	Update(ctx context.Context, id int64, coachID int64, input repository.UpdateTimesheetInput) (*models.TimesheetEntry, error)
	Delete(ctx context.Context, id int64, coachID int64) error
}

type TimesheetHandler struct {
	timesheets timesheetStore
}

func NewTimesheetHandler(timesheetRepo *repository.TimesheetRepository) *TimesheetHandler {
	return &TimesheetHandler{timesheets: timesheetRepo}
}

func (h *TimesheetHandler) ListEntries(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	entries, err := h.timesheets.ListByCoach(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch timesheet"})
	}
	return c.JSON(fiber.Map{"entries": entries})
}

type createTimesheetRequest struct {
	RosterID *string `json:"roster_id"`
	WorkDate string  `json:"work_date"`
	Hours    float64 `json:"hours"`
	Activity string  `json:"activity"`
	Notes    *string `json:"notes"`
}

func (h *TimesheetHandler) CreateEntry(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	var req createTimesheetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	workDate, err := time.Parse(workDateLayout, req.WorkDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid work_date, expected YYYY-MM-DD"})
	}
	req.Activity = strings.TrimSpace(req.Activity)
	if req.Activity == "" || req.Hours <= 0 || req.Hours > 24 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid timesheet entry"})
	}

	entry, err := h.timesheets.Create(c.Context(), repository.CreateTimesheetInput{
		CoachID:  userID,
		RosterID: req.RosterID,
		WorkDate: workDate,
		Hours:    req.Hours,
		Activity: req.Activity,
		Notes:    req.Notes,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create entry"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry": entry})
}

type updateTimesheetRequest struct {
	WorkDate *string  `json:"work_date"`
	Hours    *float64 `json:"hours"`
	Activity *string  `json:"activity"`
	Notes    *string  `json:"notes"`
}

func (h *TimesheetHandler) UpdateEntry(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}
	entryID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid entry id"})
	}

	var req updateTimesheetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	input := repository.UpdateTimesheetInput{
		Hours:    req.Hours,
		Activity: req.Activity,
		Notes:    req.Notes,
	}
	if req.WorkDate != nil {
		workDate, err := time.Parse(workDateLayout, *req.WorkDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "Invalid work_date, expected YYYY-MM-DD"})
		}
		input.WorkDate = &workDate
	}
	if req.Hours != nil && (*req.Hours <= 0 || *req.Hours > 24) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid hours"})
	}

	entry, err := h.timesheets.Update(c.Context(), entryID, userID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"error": "Entry not found or no longer editable"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update entry"})
	}
	return c.JSON(fiber.Map{"entry": entry})
}

func (h *TimesheetHandler) DeleteEntry(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}
	entryID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid entry id"})
	}

	if err := h.timesheets.Delete(c.Context(), entryID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"error": "Entry not found or no longer editable"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to delete entry"})
	}
	return c.JSON(fiber.Map{"message": "Entry deleted"})
}
