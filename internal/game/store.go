package game

import (
	"context"
	"time"
)

// Store is the durable source of truth for games and players. All components
// read-modify-write through it; nothing authoritative is cached between requests.
type Store interface {
	// GetGame returns ErrGameNotFound when the chat has no game.
	GetGame(ctx context.Context, chatId int64) (*Game, error)
	// CreateGame returns ErrAlreadyExists when the chat already has a game.
	CreateGame(ctx context.Context, g *Game) error
	ListGames(ctx context.Context) ([]*Game, error)
	// DeleteGame removes the game and every player in it.
	DeleteGame(ctx context.Context, chatId int64) error

	// BeginWar flips an idle game to war. It returns ErrWarInProgress when
	// the game is already at war.
	BeginWar(ctx context.Context, chatId, attacker, defender int64, warId string, at time.Time) error
	// EndWar saves the given players and returns the game to idle in one
	// transaction. A nil endedAt leaves the last war end time untouched.
	EndWar(ctx context.Context, chatId int64, endedAt *time.Time, players ...*Player) error

	// GetPlayer returns ErrPlayerNotFound when the user has no nation in the chat.
	GetPlayer(ctx context.Context, userId, chatId int64) (*Player, error)
	// ListPlayers returns the chat's players in the order they joined.
	ListPlayers(ctx context.Context, chatId int64) ([]*Player, error)
	// FindPlayerChat returns the chat the user joined first.
	FindPlayerChat(ctx context.Context, userId int64) (int64, error)
	// SavePlayers upserts all players in one transaction. It returns
	// ErrCountryTaken when a country would be held twice in one chat.
	SavePlayers(ctx context.Context, players ...*Player) error
	// ApplyIncome stores p's money and last income time only if the stored
	// last income time still equals prev.
	ApplyIncome(ctx context.Context, p *Player, prev time.Time) (bool, error)
}
