package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
)

type coachProfileStore interface {
	GetProfileByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
	UpdateProfile(ctx context.Context, userID int64, input repository.UpdateCoachProfileInput) (*models.CoachProfile, error)
}

type ProfileHandler struct {
	profiles coachProfileStore
}

func NewProfileHandler(coachRepo *repository.CoachRepository) *ProfileHandler {
	return &ProfileHandler{profiles: coachRepo}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	profile, err := h.profiles.GetProfileByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio"`
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "First name cannot be empty"})
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Last name cannot be empty"})
	}

	profile, err := h.profiles.UpdateProfile(c.Context(), userID, repository.UpdateCoachProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Bio:       req.Bio,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}
