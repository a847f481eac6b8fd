package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

func testProfile() *models.Profile {
	return &models.Profile{
		UserID:    42,
		Email:     "coach@example.com",
		FirstName: "Dana",
		LastName:  "Reyes",
		Role:      "coach",
		IsActive:  true,
	}
}

func TestSaveThenLoadReturnsProfile(t *testing.T) {
	cache := NewCache(NewMemoryStore())
	ctx := context.Background()

	if err := cache.Save(ctx, testProfile()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.UserID != 42 || loaded.Email != "coach@example.com" {
		t.Fatalf("unexpected profile: %+v", loaded)
	}
}

func TestLoadEmptyCacheReturnsNoSession(t *testing.T) {
	cache := NewCache(NewMemoryStore())

	if _, err := cache.Load(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestIsValidBoundary(t *testing.T) {
	issued := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	now := issued
	cache := NewCache(NewMemoryStore(), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if err := cache.Save(ctx, testProfile()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	now = issued.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	if !cache.IsValid(ctx) {
		t.Fatal("expected session valid at 23h59m59s")
	}

	now = issued.Add(24 * time.Hour)
	if cache.IsValid(ctx) {
		t.Fatal("expected session invalid at exactly 24h")
	}
}

func TestIsValidWithoutRecord(t *testing.T) {
	cache := NewCache(NewMemoryStore())
	if cache.IsValid(context.Background()) {
		t.Fatal("empty cache must not be valid")
	}
}

func TestMalformedRecordIsClearedAndAbsent(t *testing.T) {
	store := NewMemoryStore()
	cache := NewCache(store)
	ctx := context.Background()

	if err := store.Set(ctx, "coachUser", "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "coachAuthTime", "not-a-number"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := cache.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for corrupt record, got %v", err)
	}
	if cache.IsValid(ctx) {
		t.Fatal("corrupt record must not be valid")
	}
	if _, err := store.Get(ctx, "coachUser"); !errors.Is(err, ErrNotFound) {
		t.Fatal("corrupt record should have been cleared")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	cache := NewCache(NewMemoryStore())
	ctx := context.Background()

	if err := cache.Save(ctx, testProfile()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if _, err := cache.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after Clear, got %v", err)
	}
}

func TestSaveOverwritesPriorRecord(t *testing.T) {
	issued := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	now := issued
	cache := NewCache(NewMemoryStore(), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if err := cache.Save(ctx, testProfile()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Re-saving later refreshes the issue timestamp.
	now = issued.Add(23 * time.Hour)
	second := testProfile()
	second.FirstName = "Updated"
	if err := cache.Save(ctx, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	now = issued.Add(25 * time.Hour)
	if !cache.IsValid(ctx) {
		t.Fatal("refreshed session should be valid 2h after refresh")
	}
	loaded, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.FirstName != "Updated" {
		t.Fatalf("expected overwritten profile, got %+v", loaded)
	}
}

func TestNamespacedCachesDoNotCollide(t *testing.T) {
	store := NewMemoryStore()
	first := NewCache(store, WithNamespace("7"))
	second := NewCache(store, WithNamespace("8"))
	ctx := context.Background()

	if err := first.Save(ctx, testProfile()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := second.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatal("namespaced caches must not see each other's records")
	}
	if err := second.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := first.Load(ctx); err != nil {
		t.Fatalf("Clear of one namespace must not touch another: %v", err)
	}
}
