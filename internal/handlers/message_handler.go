package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/chat"
	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
	"github.com/codecraftwt/yau-coach-panel/internal/services"
)

const parentMessageLimit = 100

type roomChannel interface {
	Snapshot(ctx context.Context, roomID string) ([]models.GroupMessage, error)
	Send(ctx context.Context, roomID string, sender *models.Profile, text string) (*models.GroupMessage, error)
}

type profileResolver interface {
	FindCoachByID(ctx context.Context, userID int64) (*models.Profile, error)
}

type parentMessageReader interface {
	ListForRosters(ctx context.Context, rosterIDs []string, limit int) ([]models.ParentMessage, error)
}

type bulkMailer interface {
	EmailRosterParents(ctx context.Context, coachID int64, input services.BulkEmailInput) (int, error)
	ReplyToParent(ctx context.Context, coachID int64, messageID string, body string) error
}

type MessageHandler struct {
	channel        roomChannel
	coaches        profileResolver
	rosters        rosterReader
	parentMessages parentMessageReader
	mailer         bulkMailer
}

func NewMessageHandler(
	channel *chat.Channel,
	coachRepo *repository.CoachRepository,
	rosterRepo *repository.RosterRepository,
	parentMessageRepo *repository.ParentMessageRepository,
	mailService *services.MailService,
) *MessageHandler {
	return &MessageHandler{
		channel:        channel,
		coaches:        coachRepo,
		rosters:        rosterRepo,
		parentMessages: parentMessageRepo,
		mailer:         mailService,
	}
}

// ownRoster loads the roster behind a chat room and checks it belongs to the
// coach. Room ids are roster ids. On failure the response has already been
// written and the second return is false.
func (h *MessageHandler) ownRoster(c *fiber.Ctx, userID int64, roomID string) (*models.Roster, bool) {
	if !validUUID(roomID) {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
		return nil, false
	}
	roster, err := h.rosters.GetByID(c.Context(), roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
		} else {
			_ = c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to fetch room"})
		}
		return nil, false
	}
	if roster.CoachID != userID {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your room"})
		return nil, false
	}
	return roster, true
}

// GetRoomMessages returns the room's recent history, oldest first.
func (h *MessageHandler) GetRoomMessages(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}
	roomID := c.Params("roomId")
	if _, ok := h.ownRoster(c, userID, roomID); !ok {
		return nil
	}

	messages, err := h.channel.Snapshot(c.Context(), roomID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
	return c.JSON(fiber.Map{"messages": messages})
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h *MessageHandler) SendRoomMessage(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}
	roomID := c.Params("roomId")
	if _, ok := h.ownRoster(c, userID, roomID); !ok {
		return nil
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	sender, err := h.coaches.FindCoachByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusForbidden).
				JSON(fiber.Map{"error": "Access denied. This panel is for coaches only."})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch sender"})
	}

	message, err := h.channel.Send(c.Context(), roomID, sender, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message text is required"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to send message"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}

// ListParentMessages returns inbound parent messages across all of the
// coach's rosters, newest first.
func (h *MessageHandler) ListParentMessages(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	rosters, err := h.rosters.ListByCoach(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch rosters"})
	}
	rosterIDs := make([]string, 0, len(rosters))
	for _, roster := range rosters {
		rosterIDs = append(rosterIDs, roster.ID)
	}

	messages, err := h.parentMessages.ListForRosters(c.Context(), rosterIDs, parentMessageLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
	return c.JSON(fiber.Map{"messages": messages})
}

type bulkEmailRequest struct {
	RosterID string `json:"roster_id"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

func (h *MessageHandler) SendBulkEmail(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	var req bulkEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !validUUID(req.RosterID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Roster not found"})
	}

	sent, err := h.mailer.EmailRosterParents(c.Context(), userID, services.BulkEmailInput{
		RosterID: req.RosterID,
		Subject:  req.Subject,
		Body:     req.Body,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Subject and body are required"})
		case errors.Is(err, services.ErrRosterNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Roster not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your roster"})
		case errors.Is(err, services.ErrNoRecipients):
			return c.Status(fiber.StatusUnprocessableEntity).
				JSON(fiber.Map{"error": "Roster has no parent emails"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to send emails"})
		}
	}
	return c.JSON(fiber.Map{"sent": sent})
}

type replyRequest struct {
	Body string `json:"body"`
}

// ReplyToParent emails a response to one inbound parent message.
func (h *MessageHandler) ReplyToParent(c *fiber.Ctx) error {
	userID, ok := coachID(c)
	if !ok {
		return unauthorized(c)
	}

	messageID := c.Params("id")
	if !validUUID(messageID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Message not found"})
	}

	var req replyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.mailer.ReplyToParent(c.Context(), userID, messageID, req.Body); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reply body is required"})
		case errors.Is(err, services.ErrMessageNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Message not found"})
		case errors.Is(err, services.ErrRosterNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Message not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your roster"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to send reply"})
		}
	}
	return c.JSON(fiber.Map{"message": "Reply sent"})
}
