package economy

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pixil98/go-nations/internal/game"
)

// Sweeper periodically accrues income for every chat that is not at war.
// Chats at war are skipped entirely, so income is frozen for everyone in the
// chat until the war resolves.
type Sweeper struct {
	engine *Engine
	store  game.Store
	locks  *game.ChatLocks
}

func NewSweeper(engine *Engine, store game.Store, locks *game.ChatLocks) *Sweeper {
	return &Sweeper{
		engine: engine,
		store:  store,
		locks:  locks,
	}
}

// Tick runs one sweep. Failures are logged per chat and never stop the sweep.
func (s *Sweeper) Tick(ctx context.Context) error {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "income sweep: listing games", "error", err)
		return nil
	}

	for _, g := range games {
		if ctx.Err() != nil {
			return nil
		}
		if g.WarActive {
			continue
		}
		if err := s.sweepChat(ctx, g.ChatId); err != nil {
			slog.ErrorContext(ctx, "income sweep failed", "chat", g.ChatId, "error", err)
		}
	}

	slog.DebugContext(ctx, "income sweep done", "games", len(games), "locked", s.locks.Len())
	return nil
}

func (s *Sweeper) sweepChat(ctx context.Context, chatId int64) error {
	unlock := s.locks.Lock(chatId)
	defer unlock()

	// A war may have started since the listing.
	g, err := s.store.GetGame(ctx, chatId)
	if errors.Is(err, game.ErrGameNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if g.WarActive {
		return nil
	}

	_, err = s.engine.TouchAll(ctx, chatId)
	return err
}
