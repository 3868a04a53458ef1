package war

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-nations/internal/game"
)

// Start reconciles wars left over from an earlier run, then keeps the
// resolution timers alive until ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	if err := s.Reconcile(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("reconciling wars: %w", err)
	}

	<-ctx.Done()
	slog.InfoContext(ctx, "stopping war timers", "armed", s.Armed())

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	return nil
}

// Reconcile handles every game stored at war. Wars that should already have
// ended are reset to idle with no result or refund; the rest get a timer
// for the time they have left.
func (s *Service) Reconcile(ctx context.Context) error {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		return fmt.Errorf("listing games: %w", err)
	}

	for _, g := range games {
		if !g.WarActive && g.WarConsistent() {
			continue
		}
		if err := s.reconcileChat(ctx, g.ChatId); err != nil {
			return fmt.Errorf("chat %d: %w", g.ChatId, err)
		}
	}
	return nil
}

func (s *Service) reconcileChat(ctx context.Context, chatId int64) error {
	unlock := s.locks.Lock(chatId)
	defer unlock()

	g, err := s.store.GetGame(ctx, chatId)
	if errors.Is(err, game.ErrGameNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case !g.WarConsistent():
		return s.reset(ctx, chatId, "war state malformed at startup")
	case !g.WarActive:
		return nil
	case g.WarStartTime == nil:
		return s.reset(ctx, chatId, "war has no start time")
	}

	elapsed := s.now().Sub(*g.WarStartTime)
	if elapsed >= s.duration {
		return s.reset(ctx, chatId, fmt.Sprintf("war outlived a restart by %s", (elapsed - s.duration).Round(time.Second)))
	}

	left := s.duration - elapsed
	s.arm(chatId, g.WarId, left)
	slog.InfoContext(ctx, "re-armed war", "chat", chatId, "war", g.WarId, "remaining", left)
	return nil
}

// Armed is the number of wars waiting on their timer.
func (s *Service) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Service) arm(chatId int64, warId string, after time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[warId]; ok {
		return
	}
	s.timers[warId] = time.AfterFunc(after, func() {
		s.fire(chatId, warId)
	})
}

func (s *Service) fire(chatId int64, warId string) {
	s.mu.Lock()
	delete(s.timers, warId)
	ctx := s.base
	s.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	if _, err := s.Resolve(ctx, chatId, warId); err != nil {
		slog.ErrorContext(ctx, "resolving war", "chat", chatId, "war", warId, "error", err)
	}
}
