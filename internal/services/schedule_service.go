package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
	"github.com/jackc/pgx/v5"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrRosterNotFound = errors.New("roster not found")
	ErrGameNotFound   = errors.New("game not found")
)

type rosterReader interface {
	ListByCoach(ctx context.Context, coachID int64) ([]models.Roster, error)
	GetByID(ctx context.Context, id string) (*models.Roster, error)
}

type eventStore interface {
	CreatePractice(ctx context.Context, input repository.CreatePracticeInput) (*models.Event, error)
	ListByCoach(ctx context.Context, coachID int64) ([]models.Event, error)
}

type gameStore interface {
	GetByID(ctx context.Context, id string) (*models.Game, error)
	ListForTeams(ctx context.Context, teamIDs []string) ([]models.Game, error)
	ReportScore(ctx context.Context, input repository.ReportScoreInput) (*models.GameResult, error)
}

// ScheduleItem is one row of a coach's combined calendar. Exactly one of
// Practice and Game is set, matching Kind.
type ScheduleItem struct {
	Kind     string        `json:"kind"`
	Date     time.Time     `json:"date"`
	Practice *models.Event `json:"practice,omitempty"`
	Game     *models.Game  `json:"game,omitempty"`
}

type ScheduleService struct {
	rosterRepo rosterReader
	eventRepo  eventStore
	gameRepo   gameStore
}

func NewScheduleService(
	rosterRepo rosterReader,
	eventRepo eventStore,
	gameRepo gameStore,
) *ScheduleService {
	return &ScheduleService{
		rosterRepo: rosterRepo,
		eventRepo:  eventRepo,
		gameRepo:   gameRepo,
	}
}

// ListSchedule merges the coach's practices with the league games scheduled
// for any of the coach's teams, ordered by date ascending.
func (s *ScheduleService) ListSchedule(ctx context.Context, coachID int64) ([]ScheduleItem, error) {
	events, err := s.eventRepo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}

	rosters, err := s.rosterRepo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	teamIDs := make([]string, 0, len(rosters))
	for _, roster := range rosters {
		teamIDs = append(teamIDs, roster.ID)
	}

	var games []models.Game
	if len(teamIDs) > 0 {
		games, err = s.gameRepo.ListForTeams(ctx, teamIDs)
		if err != nil {
			return nil, err
		}
	}

	items := make([]ScheduleItem, 0, len(events)+len(games))
	for i := range events {
		items = append(items, ScheduleItem{
			Kind:     "practice",
			Date:     events[i].Date,
			Practice: &events[i],
		})
	}
	for i := range games {
		items = append(items, ScheduleItem{
			Kind: "game",
			Date: games[i].Date,
			Game: &games[i],
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
	return items, nil
}

type CreatePracticeInput struct {
	RosterID        string
	Title           string
	Location        *string
	Date            time.Time
	DurationMinutes int
	Notes           *string
}

// CreatePractice adds a practice to the coach's calendar. The roster must
// belong to the coach.
func (s *ScheduleService) CreatePractice(
	ctx context.Context,
	coachID int64,
	input CreatePracticeInput,
) (*models.Event, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || input.RosterID == "" {
		return nil, ErrInvalidInput
	}
	if input.DurationMinutes <= 0 || input.Date.IsZero() {
		return nil, ErrInvalidInput
	}

	roster, err := s.rosterRepo.GetByID(ctx, input.RosterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRosterNotFound
		}
		return nil, err
	}
	if roster.CoachID != coachID {
		return nil, ErrForbidden
	}

	return s.eventRepo.CreatePractice(ctx, repository.CreatePracticeInput{
		CoachID:         coachID,
		RosterID:        input.RosterID,
		Title:           input.Title,
		Location:        input.Location,
		Date:            input.Date,
		DurationMinutes: input.DurationMinutes,
		Notes:           input.Notes,
	})
}

type ReportScoreInput struct {
	GameID    string
	HomeScore int
	AwayScore int
}

// ReportScore records a final score for a game one of the coach's teams
// played in.
func (s *ScheduleService) ReportScore(
	ctx context.Context,
	coachID int64,
	input ReportScoreInput,
) (*models.GameResult, error) {
	if input.GameID == "" || input.HomeScore < 0 || input.AwayScore < 0 {
		return nil, ErrInvalidInput
	}

	game, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	rosters, err := s.rosterRepo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	owned := false
	for _, roster := range rosters {
		if roster.ID == game.HomeTeamID || roster.ID == game.AwayTeamID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, ErrForbidden
	}

	return s.gameRepo.ReportScore(ctx, repository.ReportScoreInput{
		GameID:    input.GameID,
		CoachID:   coachID,
		HomeScore: input.HomeScore,
		AwayScore: input.AwayScore,
	})
}
