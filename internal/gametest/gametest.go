// Package gametest holds shared fixtures for package tests.
package gametest

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-nations/internal/storage/sqlite"
)

// Epoch is the default start time of a test Clock.
var Epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: Epoch}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewStore opens a fresh database in a temp dir, closed on cleanup.
func NewStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "nations.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// SeedGame creates an idle game for chatId.
func SeedGame(t *testing.T, store game.Store, chatId, creatorId int64) *game.Game {
	t.Helper()

	g := &game.Game{ChatId: chatId, CreatorId: creatorId}
	if err := store.CreateGame(context.Background(), g); err != nil {
		t.Fatalf("seeding game %d: %v", chatId, err)
	}
	return g
}

// SeedPlayer stores a player and lets mutate adjust it first.
func SeedPlayer(t *testing.T, store game.Store, userId, chatId int64, countryId string, at time.Time, mutate ...func(*game.Player)) *game.Player {
	t.Helper()

	p := game.NewPlayer(userId, chatId, "", countryId, at)
	p.Username = countryId + "-player"
	for _, m := range mutate {
		m(p)
	}
	if err := store.SavePlayers(context.Background(), p); err != nil {
		t.Fatalf("seeding player %d: %v", userId, err)
	}
	return p
}

// MustPlayer loads a player or fails the test.
func MustPlayer(t *testing.T, store game.Store, userId, chatId int64) *game.Player {
	t.Helper()

	p, err := store.GetPlayer(context.Background(), userId, chatId)
	if err != nil {
		t.Fatalf("loading player %d: %v", userId, err)
	}
	return p
}

// MustGame loads a game or fails the test.
func MustGame(t *testing.T, store game.Store, chatId int64) *game.Game {
	t.Helper()

	g, err := store.GetGame(context.Background(), chatId)
	if err != nil {
		t.Fatalf("loading game %d: %v", chatId, err)
	}
	return g
}
