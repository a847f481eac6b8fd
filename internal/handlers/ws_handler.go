package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/codecraftwt/yau-coach-panel/internal/auth"
	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
	"github.com/codecraftwt/yau-coach-panel/internal/session"
	chatws "github.com/codecraftwt/yau-coach-panel/internal/websocket"
	"github.com/codecraftwt/yau-coach-panel/pkg/utils"
)

// WSHandler upgrades authenticated coaches onto a room's live feed. The
// connection holds a long-lived auth session: the expiry watcher forces a
// disconnect once the cached session runs out.
type WSHandler struct {
	hub        *chatws.Hub
	userRepo   *repository.UserRepository
	coachRepo  *repository.CoachRepository
	rosterRepo *repository.RosterRepository
	store      session.Store
	jwtSecret  string
}

func NewWSHandler(
	hub *chatws.Hub,
	userRepo *repository.UserRepository,
	coachRepo *repository.CoachRepository,
	rosterRepo *repository.RosterRepository,
	store session.Store,
	jwtSecret string,
) *WSHandler {
	return &WSHandler{
		hub:        hub,
		userRepo:   userRepo,
		coachRepo:  coachRepo,
		rosterRepo: rosterRepo,
		store:      store,
		jwtSecret:  jwtSecret,
	}
}

func (h *WSHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	if claims.Role != "coach" {
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"error": "Access denied. This panel is for coaches only."})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

func (h *WSHandler) HandleWebSocket(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	userIDStr, _ := conn.Locals("user_id").(string)
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return
	}
	roomID := conn.Params("roomId")

	provider := auth.NewLocalProvider(h.userRepo)
	manager := auth.NewManager(provider, h.coachRepo, h.store)
	identity := &auth.Identity{UID: userIDStr}
	provider.Resume(identity)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	profile, err := manager.CurrentProfile(ctx, identity)
	if err != nil {
		return
	}
	roster, err := h.rosterRepo.GetByID(ctx, roomID)
	if err != nil || roster.CoachID != userID {
		return
	}

	// Session expiry closes the socket; the client reconnects after a
	// fresh sign-in.
	unsubscribe := manager.OnAuthStateChange(func(p *models.Profile) {
		if p == nil {
			_ = conn.Close()
		}
	})
	defer unsubscribe()
	manager.StartExpiryWatcher(ctx, auth.DefaultExpiryInterval)

	client := chatws.NewClient(h.hub, conn, roomID, profile)
	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func (h *WSHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}
