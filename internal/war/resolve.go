package war

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-nations/internal/game"
)

// LootShare is the nominal part of the loser's money taken by the winner.
const LootShare = 0.10

// Resolution is the outcome of a finished war.
type Resolution struct {
	ChatId        int64
	WarId         string
	Attacker      *game.Player
	Defender      *game.Player
	AttackerPower float64
	DefenderPower float64
	Winner        *game.Player
	Loser         *game.Player
	// NominalLoot is the full share; Loot is what actually moved once the
	// loser's money floor was respected.
	NominalLoot float64
	Loot        float64
	Ended       time.Time
}

func (r *Resolution) AttackerWon() bool {
	return r.Winner.UserId == r.Attacker.UserId
}

// Power is a side's strength for a given luck factor in [0.9, 1.1).
func Power(p *game.Player, luck float64) float64 {
	return float64(p.ArmyLevel) * (1 + 0.1*float64(p.CityLevel)) * luck
}

// Loot returns the nominal loot for a loser holding money and the amount
// that can be taken without dropping them below game.MoneyFloor.
func Loot(money float64) (nominal, actual float64) {
	nominal = game.Round2(money * LootShare)
	actual = min(nominal, max(0, game.Round2(money-game.MoneyFloor)))
	return nominal, actual
}

// Resolve finishes the war warId in chatId and pushes the result to the
// notifier. It returns nil without error when there was nothing to resolve:
// the war already ended, a newer war replaced it, or its state was broken
// and got reset.
func (s *Service) Resolve(ctx context.Context, chatId int64, warId string) (*Resolution, error) {
	res, err := s.resolve(ctx, chatId, warId)
	if err != nil || res == nil {
		return nil, err
	}

	slog.InfoContext(ctx, "war resolved",
		"chat", chatId,
		"war", warId,
		"winner", res.Winner.UserId,
		"loser", res.Loser.UserId,
		"loot", res.Loot,
	)

	if s.notifier != nil {
		if err := s.notifier.WarResolved(ctx, res); err != nil {
			slog.ErrorContext(ctx, "notifying war result", "chat", chatId, "war", warId, "error", err)
		}
	}

	return res, nil
}

func (s *Service) resolve(ctx context.Context, chatId int64, warId string) (*Resolution, error) {
	unlock := s.locks.Lock(chatId)
	defer unlock()

	g, err := s.store.GetGame(ctx, chatId)
	if errors.Is(err, game.ErrGameNotFound) {
		slog.InfoContext(ctx, "war chat has no game anymore", "chat", chatId, "war", warId)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !g.WarConsistent() {
		return nil, s.reset(ctx, chatId, "war state malformed")
	}
	if !g.WarActive {
		return nil, nil
	}
	if g.WarId != warId {
		slog.DebugContext(ctx, "stale war timer", "chat", chatId, "war", warId, "current", g.WarId)
		return nil, nil
	}

	attacker, err := s.store.GetPlayer(ctx, g.Attacker(), chatId)
	if errors.Is(err, game.ErrPlayerNotFound) {
		return nil, s.reset(ctx, chatId, "attacker missing")
	}
	if err != nil {
		return nil, err
	}
	defender, err := s.store.GetPlayer(ctx, g.Defender(), chatId)
	if errors.Is(err, game.ErrPlayerNotFound) {
		return nil, s.reset(ctx, chatId, "defender missing")
	}
	if err != nil {
		return nil, err
	}

	res := &Resolution{
		ChatId:        chatId,
		WarId:         warId,
		Attacker:      attacker,
		Defender:      defender,
		AttackerPower: Power(attacker, s.luck()),
		DefenderPower: Power(defender, s.luck()),
		Ended:         s.now(),
	}

	res.Winner, res.Loser = defender, attacker
	if res.AttackerPower > res.DefenderPower {
		res.Winner, res.Loser = attacker, defender
	}
	res.Winner.Wins++
	res.Loser.Losses++

	res.NominalLoot, res.Loot = Loot(res.Loser.Money)
	res.Loser.Money = game.Round2(res.Loser.Money - res.Loot)
	res.Winner.Money = game.Round2(res.Winner.Money + res.Loot)

	// Income was frozen for the whole chat; restart everyone's clock now.
	players, err := s.store.ListPlayers(ctx, chatId)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	save := []*game.Player{attacker, defender}
	for _, p := range players {
		if p.UserId != attacker.UserId && p.UserId != defender.UserId {
			save = append(save, p)
		}
	}
	for _, p := range save {
		p.LastIncome = res.Ended
	}

	if err := s.store.EndWar(ctx, chatId, &res.Ended, save...); err != nil {
		return nil, fmt.Errorf("ending war: %w", err)
	}

	return res, nil
}

// reset returns a broken war to idle without a result. The cooldown clock
// is left alone. Income stays frozen for the war, so every player's clock
// restarts now.
func (s *Service) reset(ctx context.Context, chatId int64, reason string) error {
	slog.WarnContext(ctx, "resetting war state", "chat", chatId, "reason", reason)

	players, err := s.store.ListPlayers(ctx, chatId)
	if err != nil {
		return fmt.Errorf("listing players: %w", err)
	}
	now := s.now()
	for _, p := range players {
		p.LastIncome = now
	}

	if err := s.store.EndWar(ctx, chatId, nil, players...); err != nil {
		return fmt.Errorf("resetting war: %w", err)
	}
	return nil
}

func (s *Service) luck() float64 {
	return 0.9 + 0.2*s.roll()
}
