package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/pixil98/go-nations/internal/game"
)

// Engine applies passive income. Every operation that displays or mutates a
// player's money-dependent state calls Touch first.
//
// The engine does not lock; callers hold the chat's lock from game.ChatLocks
// for the whole read-modify-write. The conditional write in the store is a
// second guard against double credit.
type Engine struct {
	store   game.Store
	catalog *game.Catalog
	now     func() time.Time
}

func NewEngine(store game.Store, catalog *game.Catalog, opts ...EngineOpt) *Engine {
	e := &Engine{
		store:   store,
		catalog: catalog,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Income computes what p has earned between its last income time and now.
func (e *Engine) Income(p *game.Player, now time.Time) float64 {
	country := e.catalog.Get(p.CountryId)
	if country == nil {
		return 0
	}
	elapsed := now.Sub(p.LastIncome).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return game.Round2(country.IncomeRate(p.CityLevel) * elapsed)
}

// Accrue credits p with its income and persists it. It returns the amount
// applied; zero means nothing changed. When another writer got there first p
// is reloaded, so it never carries a stale balance back to the store.
func (e *Engine) Accrue(ctx context.Context, p *game.Player) (float64, error) {
	now := e.now()
	income := e.Income(p, now)
	if income <= 0 {
		return 0, nil
	}

	prevMoney, prevIncome := p.Money, p.LastIncome
	p.Money += income
	p.LastIncome = now

	ok, err := e.store.ApplyIncome(ctx, p, prevIncome)
	if err != nil {
		p.Money, p.LastIncome = prevMoney, prevIncome
		return 0, fmt.Errorf("accruing income: %w", err)
	}
	if !ok {
		fresh, err := e.store.GetPlayer(ctx, p.UserId, p.ChatId)
		if err != nil {
			p.Money, p.LastIncome = prevMoney, prevIncome
			return 0, fmt.Errorf("reloading player after lost income write: %w", err)
		}
		*p = *fresh
		return 0, nil
	}

	return income, nil
}

// Touch loads a player, applies pending income and returns the fresh record.
func (e *Engine) Touch(ctx context.Context, userId, chatId int64) (*game.Player, error) {
	p, err := e.store.GetPlayer(ctx, userId, chatId)
	if err != nil {
		return nil, err
	}

	if _, err := e.Accrue(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// TouchAll applies pending income to every player of a chat and returns them
// in join order.
func (e *Engine) TouchAll(ctx context.Context, chatId int64) ([]*game.Player, error) {
	players, err := e.store.ListPlayers(ctx, chatId)
	if err != nil {
		return nil, err
	}

	for _, p := range players {
		if _, err := e.Accrue(ctx, p); err != nil {
			return nil, err
		}
	}

	return players, nil
}
