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
	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/chat"
	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/services"
)

type stubRoomChannel struct {
	snapshot    []models.GroupMessage
	snapshotErr error
	sendResult  *models.GroupMessage
	sendErr     error
	lastRoomID  string
	lastText    string
	lastSender  *models.Profile
}

func (s *stubRoomChannel) Snapshot(_ context.Context, roomID string) ([]models.GroupMessage, error) {
	s.lastRoomID = roomID
	return s.snapshot, s.snapshotErr
}

func (s *stubRoomChannel) Send(_ context.Context, roomID string, sender *models.Profile, text string) (*models.GroupMessage, error) {
	s.lastRoomID = roomID
	s.lastSender = sender
	s.lastText = text
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return s.sendResult, nil
}

type stubCoachResolver struct {
	profile *models.Profile
	err     error
}

func (s *stubCoachResolver) FindCoachByID(_ context.Context, _ int64) (*models.Profile, error) {
	return s.profile, s.err
}

type stubRosterStore struct {
	listResult []models.Roster
	listErr    error
	getResult  *models.Roster
	getErr     error
}

func (s *stubRosterStore) ListByCoach(_ context.Context, _ int64) ([]models.Roster, error) {
	return s.listResult, s.listErr
}

func (s *stubRosterStore) GetByID(_ context.Context, _ string) (*models.Roster, error) {
	return s.getResult, s.getErr
}

type stubParentMessages struct {
	result        []models.ParentMessage
	err           error
	lastRosterIDs []string
	lastLimit     int
}

func (s *stubParentMessages) ListForRosters(_ context.Context, rosterIDs []string, limit int) ([]models.ParentMessage, error) {
	s.lastRosterIDs = rosterIDs
	s.lastLimit = limit
	return s.result, s.err
}

type stubMailer struct {
	sent          int
	err           error
	lastInput     services.BulkEmailInput
	lastMessageID string
	lastBody      string
}

func (s *stubMailer) EmailRosterParents(_ context.Context, _ int64, input services.BulkEmailInput) (int, error) {
	s.lastInput = input
	return s.sent, s.err
}

func (s *stubMailer) ReplyToParent(_ context.Context, _ int64, messageID string, body string) error {
	s.lastMessageID = messageID
	s.lastBody = body
	return s.err
}

func ownedRoster() *models.Roster {
	return &models.Roster{ID: testRosterID, CoachID: 7, Name: "U12 Hawks"}
}

func coachProfile() *models.Profile {
	return &models.Profile{UserID: 7, Email: "alex@club.test", FirstName: "Alex", LastName: "Hart", Role: "coach", IsActive: true}
}

func TestGetRoomMessagesReturnsSnapshot(t *testing.T) {
	channel := &stubRoomChannel{snapshot: []models.GroupMessage{
		{ID: "m1", Text: "first", Timestamp: time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "m2", Text: "second", Timestamp: time.Date(2025, 9, 1, 10, 1, 0, 0, time.UTC)},
	}}
	handler := &MessageHandler{
		channel: channel,
		rosters: &stubRosterStore{getResult: ownedRoster()},
	}

	app := newCoachApp(func(app *fiber.App) {
		app.Get("/api/v1/rooms/:roomId/messages", handler.GetRoomMessages)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+testRosterID+"/messages", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Messages []models.GroupMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Messages) != 2 || body.Messages[0].Text != "first" {
		t.Fatalf("unexpected messages: %+v", body.Messages)
	}
	if channel.lastRoomID != testRosterID {
		t.Fatalf("expected snapshot for %s, got %s", testRosterID, channel.lastRoomID)
	}
}

func TestGetRoomMessagesForeignRoomForbidden(t *testing.T) {
	roster := ownedRoster()
	roster.CoachID = 99
	handler := &MessageHandler{
		channel: &stubRoomChannel{},
		rosters: &stubRosterStore{getResult: roster},
	}

	app := newCoachApp(func(app *fiber.App) {
		app.Get("/api/v1/rooms/:roomId/messages", handler.GetRoomMessages)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+testRosterID+"/messages", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestGetRoomMessagesUnknownRoom(t *testing.T) {
	handler := &MessageHandler{
		channel: &stubRoomChannel{},
		rosters: &stubRosterStore{getErr: pgx.ErrNoRows},
	}

	app := newCoachApp(func(app *fiber.App) {
		app.Get("/api/v1/rooms/:roomId/messages", handler.GetRoomMessages)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+testRosterID+"/messages", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSendRoomMessageReturnsCreated(t *testing.T) {
	channel := &stubRoomChannel{sendResult: &models.GroupMessage{ID: "m3", Text: "bring water bottles"}}
	handler := &MessageHandler{
		channel: channel,
		coaches: &stubCoachResolver{profile: coachProfile()},
		rosters: &stubRosterStore{getResult: ownedRoster()},
	}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/rooms/:roomId/messages", handler.SendRoomMessage)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/"+testRosterID+"/messages",
		strings.NewReader(`{"text": "bring water bottles"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if channel.lastText != "bring water bottles" {
		t.Fatalf("expected text passed through, got %q", channel.lastText)
	}
	if channel.lastSender == nil || channel.lastSender.UserID != 7 {
		t.Fatalf("expected sender profile for coach 7, got %+v", channel.lastSender)
	}
}

func TestSendRoomMessageEmptyText(t *testing.T) {
	handler := &MessageHandler{
		channel: &stubRoomChannel{sendErr: chat.ErrEmptyMessage},
		coaches: &stubCoachResolver{profile: coachProfile()},
		rosters: &stubRosterStore{getResult: ownedRoster()},
	}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/rooms/:roomId/messages", handler.SendRoomMessage)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/"+testRosterID+"/messages",
		strings.NewReader(`{"text": "   "}`))
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

func TestListParentMessagesQueriesAllRosters(t *testing.T) {
	parents := &stubParentMessages{result: []models.ParentMessage{{ID: "pm1", Body: "Will miss Saturday"}}}
	handler := &MessageHandler{
		rosters: &stubRosterStore{listResult: []models.Roster{
			{ID: "team-a", CoachID: 7},
			{ID: "team-b", CoachID: 7},
		}},
		parentMessages: parents,
	}

	app := newCoachApp(func(app *fiber.App) {
		app.Get("/api/v1/messages/parents", handler.ListParentMessages)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/parents", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(parents.lastRosterIDs) != 2 {
		t.Fatalf("expected 2 roster ids, got %v", parents.lastRosterIDs)
	}
	if parents.lastLimit != parentMessageLimit {
		t.Fatalf("expected limit %d, got %d", parentMessageLimit, parents.lastLimit)
	}
}

func TestSendBulkEmailReturnsCount(t *testing.T) {
	mailer := &stubMailer{sent: 12}
	handler := &MessageHandler{mailer: mailer}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/messages/bulk-email", handler.SendBulkEmail)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages/bulk-email", strings.NewReader(`{
		"roster_id": "`+testRosterID+`",
		"subject": "Saturday game",
		"body": "Kickoff is at 9am."
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Sent int `json:"sent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Sent != 12 {
		t.Fatalf("expected 12 sent, got %d", body.Sent)
	}
	if mailer.lastInput.Subject != "Saturday game" {
		t.Fatalf("expected subject passed through, got %q", mailer.lastInput.Subject)
	}
}

func TestSendBulkEmailNoRecipients(t *testing.T) {
	handler := &MessageHandler{mailer: &stubMailer{err: services.ErrNoRecipients}}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/messages/bulk-email", handler.SendBulkEmail)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages/bulk-email", strings.NewReader(`{
		"roster_id": "`+testRosterID+`",
		"subject": "Saturday game",
		"body": "Kickoff is at 9am."
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestReplyToParentPassesThrough(t *testing.T) {
	const messageID = "33333333-3333-3333-3333-333333333333"
	mailer := &stubMailer{}
	handler := &MessageHandler{mailer: mailer}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/messages/parents/:id/reply", handler.ReplyToParent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages/parents/"+messageID+"/reply",
		strings.NewReader(`{"body": "Yes, we have room."}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if mailer.lastMessageID != messageID {
		t.Fatalf("expected message id passed through, got %q", mailer.lastMessageID)
	}
	if mailer.lastBody != "Yes, we have room." {
		t.Fatalf("expected body passed through, got %q", mailer.lastBody)
	}
}

func TestReplyToParentMalformedID(t *testing.T) {
	mailer := &stubMailer{}
	handler := &MessageHandler{mailer: mailer}

	app := newCoachApp(func(app *fiber.App) {
		app.Post("/api/v1/messages/parents/:id/reply", handler.ReplyToParent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages/parents/not-a-uuid/reply",
		strings.NewReader(`{"body": "Hello"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if mailer.lastMessageID != "" {
		t.Fatalf("expected mailer untouched, got %q", mailer.lastMessageID)
	}
}
