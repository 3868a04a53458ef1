package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-nations/internal/gametest"
	"github.com/pixil98/go-nations/internal/storage/sqlite"
	"github.com/pixil98/go-testutil"
)

const chat = int64(-100)

func TestOpen(t *testing.T) {
	tests := map[string]struct {
		path   string
		expErr string
	}{
		"empty path": {
			path:   " ",
			expErr: "database path is required",
		},
		"new file": {
			path: filepath.Join(t.TempDir(), "nations.db"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store, err := sqlite.Open(context.Background(), tt.path)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := store.Close(); err != nil {
				t.Fatalf("closing: %v", err)
			}
		})
	}
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nations.db")

	store, err := sqlite.Open(ctx, path)
	if err != nil {
		t.Fatalf("opening: %v", err)
	}
	gametest.SeedGame(t, store, chat, 1)
	gametest.SeedPlayer(t, store, 1, chat, "russia", gametest.Epoch)
	_ = store.Close()

	store, err = sqlite.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer func() { _ = store.Close() }()

	p := gametest.MustPlayer(t, store, 1, chat)
	testutil.AssertEqual(t, "country", p.CountryId, "russia")
	testutil.AssertEqual(t, "last income", p.LastIncome.Equal(gametest.Epoch), true)
}

func TestStore_Games(t *testing.T) {
	ctx := context.Background()
	store := gametest.NewStore(t)

	_, err := store.GetGame(ctx, chat)
	testutil.AssertEqual(t, "missing", errors.Is(err, game.ErrGameNotFound), true)

	gametest.SeedGame(t, store, chat, 7)
	err = store.CreateGame(ctx, &game.Game{ChatId: chat, CreatorId: 8})
	testutil.AssertEqual(t, "duplicate", errors.Is(err, game.ErrAlreadyExists), true)

	gametest.SeedGame(t, store, 5, 9)
	games, err := store.ListGames(ctx)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	testutil.AssertEqual(t, "count", len(games), 2)
	testutil.AssertEqual(t, "ordered", games[0].ChatId, chat)

	g := gametest.MustGame(t, store, chat)
	testutil.AssertEqual(t, "creator", g.CreatorId, int64(7))
	testutil.AssertEqual(t, "idle", g.WarActive, false)
	testutil.AssertEqual(t, "consistent", g.WarConsistent(), true)
	testutil.AssertEqual(t, "no end", g.LastWarEndTime == nil, true)
}

func TestStore_DeleteGame(t *testing.T) {
	ctx := context.Background()
	store := gametest.NewStore(t)
	gametest.SeedGame(t, store, chat, 1)
	gametest.SeedPlayer(t, store, 1, chat, "russia", gametest.Epoch)
	gametest.SeedGame(t, store, 5, 1)
	gametest.SeedPlayer(t, store, 1, 5, "spain", gametest.Epoch)

	if err := store.DeleteGame(ctx, chat); err != nil {
		t.Fatalf("deleting: %v", err)
	}

	_, err := store.GetGame(ctx, chat)
	testutil.AssertEqual(t, "game gone", errors.Is(err, game.ErrGameNotFound), true)
	_, err = store.GetPlayer(ctx, 1, chat)
	testutil.AssertEqual(t, "player gone", errors.Is(err, game.ErrPlayerNotFound), true)

	// Rejoining the same country in a fresh game must work.
	gametest.SeedGame(t, store, chat, 2)
	gametest.SeedPlayer(t, store, 2, chat, "russia", gametest.Epoch)

	other := gametest.MustPlayer(t, store, 1, 5)
	testutil.AssertEqual(t, "other chat kept", other.CountryId, "spain")
}

func TestStore_Wars(t *testing.T) {
	ctx := context.Background()
	store := gametest.NewStore(t)
	gametest.SeedGame(t, store, chat, 1)
	winner := gametest.SeedPlayer(t, store, 1, chat, "russia", gametest.Epoch)
	loser := gametest.SeedPlayer(t, store, 2, chat, "spain", gametest.Epoch)

	start := gametest.Epoch.Add(time.Minute)
	if err := store.BeginWar(ctx, chat, 1, 2, "war-1", start); err != nil {
		t.Fatalf("beginning war: %v", err)
	}

	g := gametest.MustGame(t, store, chat)
	testutil.AssertEqual(t, "active", g.WarActive, true)
	testutil.AssertEqual(t, "attacker", g.Attacker(), int64(1))
	testutil.AssertEqual(t, "defender", g.Defender(), int64(2))
	testutil.AssertEqual(t, "war id", g.WarId, "war-1")
	testutil.AssertEqual(t, "start", g.WarStartTime.Equal(start), true)

	err := store.BeginWar(ctx, chat, 2, 1, "war-2", start)
	testutil.AssertEqual(t, "second war", errors.Is(err, game.ErrWarInProgress), true)
	err = store.BeginWar(ctx, 404, 2, 1, "war-3", start)
	testutil.AssertEqual(t, "no game", errors.Is(err, game.ErrGameNotFound), true)

	end := start.Add(30 * time.Second)
	winner.Money, winner.Wins = 1100, 1
	loser.Money, loser.Losses = 900, 1
	if err := store.EndWar(ctx, chat, &end, winner, loser); err != nil {
		t.Fatalf("ending war: %v", err)
	}

	g = gametest.MustGame(t, store, chat)
	testutil.AssertEqual(t, "idle", g.WarActive, false)
	testutil.AssertEqual(t, "participants", len(g.WarParticipants), 0)
	testutil.AssertEqual(t, "war id cleared", g.WarId, "")
	testutil.AssertEqual(t, "ended", g.LastWarEndTime.Equal(end), true)
	testutil.AssertEqual(t, "winner money", gametest.MustPlayer(t, store, 1, chat).Money, 1100.0)
	testutil.AssertEqual(t, "loser losses", gametest.MustPlayer(t, store, 2, chat).Losses, 1)

	// A reset without a result keeps the previous end time.
	if err := store.BeginWar(ctx, chat, 2, 1, "war-4", end); err != nil {
		t.Fatalf("beginning war: %v", err)
	}
	if err := store.EndWar(ctx, chat, nil); err != nil {
		t.Fatalf("resetting war: %v", err)
	}
	g = gametest.MustGame(t, store, chat)
	testutil.AssertEqual(t, "end kept", g.LastWarEndTime.Equal(end), true)
}

func TestStore_Players(t *testing.T) {
	ctx := context.Background()
	store := gametest.NewStore(t)
	gametest.SeedGame(t, store, 20, 1)
	gametest.SeedGame(t, store, 10, 1)
	gametest.SeedPlayer(t, store, 1, 20, "russia", gametest.Epoch)
	gametest.SeedPlayer(t, store, 1, 10, "spain", gametest.Epoch)
	gametest.SeedPlayer(t, store, 3, 10, "turkey", gametest.Epoch)

	tests := map[string]struct {
		player *game.Player
		expErr error
	}{
		"country taken": {
			player: game.NewPlayer(4, 10, "dave", "spain", gametest.Epoch),
			expErr: game.ErrCountryTaken,
		},
		"same country other chat": {
			player: game.NewPlayer(4, 20, "dave", "spain", gametest.Epoch),
		},
		"update in place": {
			player: &game.Player{UserId: 3, ChatId: 10, Username: "carol", CountryId: "sweden", Money: 5, ArmyLevel: 2, CityLevel: 3, LastIncome: gametest.Epoch},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := store.SavePlayers(ctx, tt.player)
			if tt.expErr != nil {
				testutil.AssertEqual(t, "error", errors.Is(err, tt.expErr), true)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := gametest.MustPlayer(t, store, tt.player.UserId, tt.player.ChatId)
			testutil.AssertEqual(t, "country", got.CountryId, tt.player.CountryId)
			testutil.AssertEqual(t, "city", got.CityLevel, tt.player.CityLevel)
		})
	}

	players, err := store.ListPlayers(ctx, 10)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	testutil.AssertEqual(t, "count", len(players), 2)
	testutil.AssertEqual(t, "join order", players[0].UserId, int64(1))

	first, err := store.FindPlayerChat(ctx, 1)
	if err != nil {
		t.Fatalf("finding chat: %v", err)
	}
	testutil.AssertEqual(t, "first joined", first, int64(20))

	_, err = store.FindPlayerChat(ctx, 99)
	testutil.AssertEqual(t, "unknown user", errors.Is(err, game.ErrPlayerNotFound), true)
}

func TestStore_SavePlayersIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := gametest.NewStore(t)
	gametest.SeedGame(t, store, chat, 1)
	a := gametest.SeedPlayer(t, store, 1, chat, "russia", gametest.Epoch)
	gametest.SeedPlayer(t, store, 2, chat, "spain", gametest.Epoch)

	a.Money = 1
	clash := game.NewPlayer(3, chat, "carol", "spain", gametest.Epoch)
	err := store.SavePlayers(ctx, a, clash)
	testutil.AssertEqual(t, "taken", errors.Is(err, game.ErrCountryTaken), true)
	testutil.AssertEqual(t, "rolled back", gametest.MustPlayer(t, store, 1, chat).Money, game.StartingMoney)
}

func TestStore_ApplyIncome(t *testing.T) {
	ctx := context.Background()
	store := gametest.NewStore(t)
	gametest.SeedGame(t, store, chat, 1)
	p := gametest.SeedPlayer(t, store, 1, chat, "russia", gametest.Epoch)

	prev := p.LastIncome
	p.Money += 100
	p.LastIncome = prev.Add(10 * time.Second)

	ok, err := store.ApplyIncome(ctx, p, prev)
	if err != nil {
		t.Fatalf("applying: %v", err)
	}
	testutil.AssertEqual(t, "applied", ok, true)

	// A second writer holding the old timestamp loses.
	ok, err = store.ApplyIncome(ctx, p, prev)
	if err != nil {
		t.Fatalf("applying: %v", err)
	}
	testutil.AssertEqual(t, "stale", ok, false)
	testutil.AssertEqual(t, "money", gametest.MustPlayer(t, store, 1, chat).Money, 1100.0)
}
