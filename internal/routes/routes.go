package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/codecraftwt/yau-coach-panel/internal/chat"
	"github.com/codecraftwt/yau-coach-panel/internal/config"
	"github.com/codecraftwt/yau-coach-panel/internal/handlers"
	"github.com/codecraftwt/yau-coach-panel/internal/middleware"
	"github.com/codecraftwt/yau-coach-panel/internal/realtime"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
	"github.com/codecraftwt/yau-coach-panel/internal/services"
	"github.com/codecraftwt/yau-coach-panel/internal/session"
	chatws "github.com/codecraftwt/yau-coach-panel/internal/websocket"
)

// RegisterRoutes wires repositories, services and handlers onto the app.
// redisClient may be nil; sessions then live in process memory.
func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, redisClient *redis.Client) {
	userRepo := repository.NewUserRepository(db)
	coachRepo := repository.NewCoachRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	eventRepo := repository.NewEventRepository(db)
	gameRepo := repository.NewGameRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	parentMessageRepo := repository.NewParentMessageRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	locationRepo := repository.NewLocationRepository(db)

	var sessionStore session.Store
	if redisClient != nil {
		sessionStore = session.NewRedisStore(redisClient, 2*session.Validity)
	} else {
		sessionStore = session.NewMemoryStore()
	}

	registry := realtime.NewRegistry()
	broker := realtime.NewBroker()
	channel := chat.NewChannel(registry, broker, messageRepo)

	scheduleService := services.NewScheduleService(rosterRepo, eventRepo, gameRepo)
	mailService := services.NewMailService(rosterRepo, parentMessageRepo, cfg.ResendAPIKey, cfg.MailFrom)

	authHandler := handlers.NewAuthHandler(userRepo, coachRepo, sessionStore, cfg.JWTSecret)
	profileHandler := handlers.NewProfileHandler(coachRepo)
	rosterHandler := handlers.NewRosterHandler(rosterRepo)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	messageHandler := handlers.NewMessageHandler(channel, coachRepo, rosterRepo, parentMessageRepo, mailService)
	timesheetHandler := handlers.NewTimesheetHandler(timesheetRepo)
	resourceHandler := handlers.NewResourceHandler(announcementRepo, locationRepo)

	hub := chatws.NewHub(channel)
	go hub.Run()
	wsHandler := handlers.NewWSHandler(hub, userRepo, coachRepo, rosterRepo, sessionStore, cfg.JWTSecret)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", middleware.AuthRequired(cfg.JWTSecret), authHandler.Logout)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)
	auth.Put("/password", middleware.AuthRequired(cfg.JWTSecret), middleware.CoachOnly(), authHandler.ChangePassword)

	coach := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret), middleware.CoachOnly())

	coach.Get("/profile", profileHandler.GetProfile)
	coach.Put("/profile", profileHandler.UpdateProfile)

	rosters := coach.Group("/rosters")
	rosters.Get("", rosterHandler.ListRosters)
	rosters.Get("/:id", rosterHandler.GetRoster)

	schedule := coach.Group("/schedule")
	schedule.Get("", scheduleHandler.ListSchedule)
	schedule.Post("/practices", scheduleHandler.CreatePractice)
	schedule.Post("/games/:id/score", scheduleHandler.ReportScore)

	rooms := coach.Group("/rooms")
	rooms.Get("/:roomId/messages", messageHandler.GetRoomMessages)
	rooms.Post("/:roomId/messages", messageHandler.SendRoomMessage)

	messages := coach.Group("/messages")
	messages.Get("/parents", messageHandler.ListParentMessages)
	messages.Post("/parents/:id/reply", messageHandler.ReplyToParent)
	messages.Post("/bulk-email", messageHandler.SendBulkEmail)

	timesheet := coach.Group("/timesheet")
	timesheet.Get("", timesheetHandler.ListEntries)
	timesheet.Post("", timesheetHandler.CreateEntry)
	timesheet.Put("/:id", timesheetHandler.UpdateEntry)
	timesheet.Delete("/:id", timesheetHandler.DeleteEntry)

	coach.Get("/announcements", resourceHandler.ListAnnouncements)
	coach.Get("/locations", resourceHandler.ListLocations)

	api.Use("/v1/ws/rooms/:roomId", wsHandler.WebSocketAuth)
	api.Get("/v1/ws/rooms/:roomId", websocket.New(wsHandler.HandleWebSocket))
}
