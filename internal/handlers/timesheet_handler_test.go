package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
)

type stubTimesheetRepo struct {
	listResult   []models.TimesheetEntry
	listErr      error
	createResult *models.TimesheetEntry
	createErr    error
	updateResult *models.TimesheetEntry
	updateErr    error
	deleteErr    error
	lastCreate   repository.CreateTimesheetInput
	lastUpdateID int64
	lastCoachID  int64
}

func (s *stubTimesheetRepo) ListByCoach(_ context.Context, coachID int64) ([]models.TimesheetEntry, error) {
	s.lastCoachID = coachID
	return s.listResult, s.listErr
}

func (s *stubTimesheetRepo) Create(_ context.Context, input repository.CreateTimesheetInput) (*models.TimesheetEntry, error) {
	s.lastCreate = input
	return s.createResult, s.createErr
}

func (s *stubTimesheetRepo) Update(_ context.Context, id int64, coachID int64, _ repository.UpdateTimesheetInput) (*models.TimesheetEntry, error) {
	s.lastUpdateID = id
	s.lastCoachID = coachID
	return s.updateResult, s.updateErr
}

func (s *stubTimesheetRepo) Delete(_ context.Context, id int64, coachID int64) error {
	s.lastUpdateID = id
	s.lastCoachID = coachID
	return s.deleteErr
}

func TestCreateTimesheetEntry(t *testing.T) {
	repo := &stubTimesheetRepo{createResult: &models.TimesheetEntry{ID: 5, Status: "submitted"}}
	handler := &TimesheetHandler{timesheets: repo}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/timesheet", handler.CreateEntry)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/timesheet", strings.NewReader(`{
		"work_date": "2025-08-30",
		"hours": 2.5,
		"activity": "practice"
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
	if repo.lastCreate.CoachID != 7 {
		t.Fatalf("expected coach id 7, got %d", repo.lastCreate.CoachID)
	}
	if repo.lastCreate.Hours != 2.5 {
		t.Fatalf("expected 2.5 hours, got %v", repo.lastCreate.Hours)
	}
}

func TestCreateTimesheetEntryRejectsBadHours(t *testing.T) {
	handler := &TimesheetHandler{timesheets: &stubTimesheetRepo{}}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/timesheet", handler.CreateEntry)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/timesheet", strings.NewReader(`{
		"work_date": "2025-08-30",
		"hours": 0,
		"activity": "practice"
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
}

func TestUpdateTimesheetEntryLocked(t *testing.T) {
	handler := &TimesheetHandler{timesheets: &stubTimesheetRepo{updateErr: pgx.ErrNoRows}}

	app := newCoachApp(func(app *fiber.App) {
		app.Put("/api/v1/timesheet/:id", handler.UpdateEntry)
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/timesheet/5", strings.NewReader(`{"hours": 3}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteTimesheetEntry(t *testing.T) {
	repo := &stubTimesheetRepo{}
	handler := &TimesheetHandler{timesheets: repo}

	app := newCoachApp(func(app *fiber.App) {
		app.Delete("/api/v1/timesheet/:id", handler.DeleteEntry)
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/timesheet/5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if repo.lastUpdateID != 5 || repo.lastCoachID != 7 {
		t.Fatalf("expected delete of entry 5 for coach 7, got %d/%d", repo.lastUpdateID, repo.lastCoachID)
	}
}
