package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/services"
)

const (
	testRosterID = "11111111-1111-1111-1111-111111111111"
	testGameID   = "22222222-2222-2222-2222-222222222222"
)

type stubScheduleService struct {
	listResult    []services.ScheduleItem
	listErr       error
	createResult  *models.Event
	createErr     error
	reportResult  *models.GameResult
	reportErr     error
	lastCoachID   int64
	lastCreate    services.CreatePracticeInput
	lastReport    services.ReportScoreInput
	reportCalled  bool
	createCalled  bool
}

func (s *stubScheduleService) ListSchedule(_ context.Context, coachID int64) ([]services.ScheduleItem, error) {
	s.lastCoachID = coachID
	return s.listResult, s.listErr
}

func (s *stubScheduleService) CreatePractice(_ context.Context, coachID int64, input services.CreatePracticeInput) (*models.Event, error) {
	s.lastCoachID = coachID
	s.lastCreate = input
	s.createCalled = true
	return s.createResult, s.createErr
}

func (s *stubScheduleService) ReportScore(_ context.Context, coachID int64, input services.ReportScoreInput) (*models.GameResult, error) {
	s.lastCoachID = coachID
	s.lastReport = input
	s.reportCalled = true
	return s.reportResult, s.reportErr
}

func newCoachApp(register func(app *fiber.App)) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", "coach")
		c.Locals("user_id", "7")
		return c.Next()
	})
	register(app)
	return app
}

func TestListScheduleReturnsItems(t *testing.T) {
	service := &stubScheduleService{
		listResult: []services.ScheduleItem{
			{Kind: "practice", Date: time.Date(2025, 9, 2, 18, 0, 0, 0, time.UTC)},
			{Kind: "game", Date: time.Date(2025, 9, 3, 18, 0, 0, 0, time.UTC)},
		},
	}
	handler := &ScheduleHandler{service: service}

	app := newCoachApp(func(app *fiber.App) {
		app.Get("/api/v1/schedule", handler.ListSchedule)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastCoachID != 7 {
		t.Fatalf("expected coach id 7, got %d", service.lastCoachID)
	}

	var body struct {
		Schedule []services.ScheduleItem `json:"schedule"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Schedule) != 2 {
		t.Fatalf("expected 2 items, got %d", len(body.Schedule))
	}
}

func TestCreatePracticeReturnsCreated(t *testing.T) {
	service := &stubScheduleService{createResult: &models.Event{ID: "p1", Title: "Tuesday practice"}}
	handler := &ScheduleHandler{service: service}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/schedule/practices", handler.CreatePractice)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/practices", strings.NewReader(`{
		"roster_id": "`+testRosterID+`",
		"title": "Tuesday practice",
		"date": "2025-09-02T18:00:00Z",
		"duration_minutes": 90
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastCreate.RosterID != testRosterID {
		t.Fatalf("expected roster id passed through, got %q", service.lastCreate.RosterID)
	}
	if !service.lastCreate.Date.Equal(time.Date(2025, 9, 2, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected parsed date: %v", service.lastCreate.Date)
	}
}

func TestCreatePracticeRejectsBadDate(t *testing.T) {
	service := &stubScheduleService{}
	handler := &ScheduleHandler{service: service}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/schedule/practices", handler.CreatePractice)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/practices", strings.NewReader(`{
		"roster_id": "`+testRosterID+`",
		"title": "Tuesday practice",
		"date": "tomorrow",
		"duration_minutes": 90
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if service.createCalled {
		t.Fatal("service should not be called for malformed date")
	}
}

func TestCreatePracticeForeignRosterForbidden(t *testing.T) {
	service := &stubScheduleService{createErr: services.ErrForbidden}
	handler := &ScheduleHandler{service: service}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/schedule/practices", handler.CreatePractice)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/practices", strings.NewReader(`{
		"roster_id": "`+testRosterID+`",
		"title": "Tuesday practice",
		"date": "2025-09-02T18:00:00Z",
		"duration_minutes": 90
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestReportScoreReturnsResult(t *testing.T) {
	service := &stubScheduleService{reportResult: &models.GameResult{ID: "r1", GameID: testGameID}}
	handler := &ScheduleHandler{service: service}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/schedule/games/:id/score", handler.ReportScore)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/games/"+testGameID+"/score",
		strings.NewReader(`{"home_score": 2, "away_score": 1}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastReport.GameID != testGameID {
		t.Fatalf("expected game id passed through, got %q", service.lastReport.GameID)
	}
	if service.lastReport.HomeScore != 2 || service.lastReport.AwayScore != 1 {
		t.Fatalf("unexpected scores: %d-%d", service.lastReport.HomeScore, service.lastReport.AwayScore)
	}
}

func TestReportScoreMalformedGameID(t *testing.T) {
	service := &stubScheduleService{}
	handler := &ScheduleHandler{service: service}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/schedule/games/:id/score", handler.ReportScore)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/games/not-a-uuid/score",
		strings.NewReader(`{"home_score": 2, "away_score": 1}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if service.reportCalled {
		t.Fatal("service should not be called for malformed game id")
	}
}
