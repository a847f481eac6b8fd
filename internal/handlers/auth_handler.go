package handlers

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/auth"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
	"github.com/codecraftwt/yau-coach-panel/internal/session"
	"github.com/codecraftwt/yau-coach-panel/pkg/utils"
)

type AuthHandler struct {
	userRepo  *repository.UserRepository
	coachRepo *repository.CoachRepository
	store     session.Store
	jwtSecret string
}

func NewAuthHandler(
	userRepo *repository.UserRepository,
	coachRepo *repository.CoachRepository,
	store session.Store,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		userRepo:  userRepo,
		coachRepo: coachRepo,
		store:     store,
		jwtSecret: jwtSecret,
	}
}

// newSession builds a manager bound to this request. Managers are cheap:
// state that must outlive the request lives in the session store.
func (h *AuthHandler) newSession() (*auth.LocalProvider, *auth.Manager) {
	provider := auth.NewLocalProvider(h.userRepo)
	return provider, auth.NewManager(provider, h.coachRepo, h.store)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	req.Email = strings.ToLower(parsedEmail.Address)

	_, manager := h.newSession()
	profile, err := manager.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "Invalid email or password"})
		case errors.Is(err, auth.ErrAccessDenied):
			return c.Status(fiber.StatusForbidden).
				JSON(fiber.Map{"error": "Access denied. This panel is for coaches only."})
		case errors.Is(err, auth.ErrAccountDeactivated):
			return c.Status(fiber.StatusForbidden).
				JSON(fiber.Map{"error": "Account is deactivated"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to sign in"})
		}
	}

	token, err := utils.GenerateToken(strconv.FormatInt(profile.UserID, 10), profile.Role, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"coach": profile,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	provider, manager := h.newSession()
	provider.Resume(&auth.Identity{UID: strconv.FormatInt(userID, 10)})
	if err := manager.SignOut(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to sign out"})
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// Me resolves the authenticated coach's profile: a valid session cache entry
// first, then the database by id, then by email.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	_, manager := h.newSession()
	profile, err := manager.CurrentProfile(c.Context(), &auth.Identity{UID: strconv.FormatInt(userID, 10)})
	if err != nil {
		if errors.Is(err, auth.ErrProfileNotFound) {
			return c.Status(fiber.StatusForbidden).
				JSON(fiber.Map{"error": "Access denied. This panel is for coaches only."})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	return c.JSON(fiber.Map{"coach": profile})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Password must be at least 8 characters"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to lookup user"})
	}
	if !utils.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Current password is incorrect"})
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to hash password"})
	}
	if err := h.userRepo.UpdatePassword(c.Context(), userID, hashed); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update password"})
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}
