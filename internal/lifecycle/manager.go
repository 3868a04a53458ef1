// Package lifecycle manages games and players: creating and joining games,
// picking countries, upgrades, rankings and admin resets.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pixil98/go-nations/internal/economy"
	"github.com/pixil98/go-nations/internal/game"
)

// TopLimit caps the ranking.
const TopLimit = 10

// Elevation reports whether a user holds admin rights in a chat.
type Elevation interface {
	IsElevated(ctx context.Context, chatId, userId int64) (bool, error)
}

// ExistingGameError is returned by CreateGame when the chat already has a
// game. It carries the state to show instead.
type ExistingGameError struct {
	Game *game.Game
	// Player is the requester's nation, nil if they haven't joined.
	Player *game.Player
}

func (e *ExistingGameError) Error() string {
	return fmt.Sprintf("%s: chat %d", game.ErrAlreadyExists, e.Game.ChatId)
}

func (e *ExistingGameError) Unwrap() error {
	return game.ErrAlreadyExists
}

// JoinResult is either an existing member's nation or the countries a new
// member can pick from.
type JoinResult struct {
	Player    *game.Player
	Countries []*game.Country
}

// View is a player's nation with the figures derived from it.
type View struct {
	Game            *game.Game
	Player          *game.Player
	Country         *game.Country
	IncomePerSecond float64
	NextArmyCost    float64
	NextCityCost    float64
	// Rank and Players are only set by Stats.
	Rank    int
	Players int
}

// Upgrade is the outcome of a successful army or city upgrade.
type Upgrade struct {
	Player *game.Player
	Cost   float64
	Level  int
}

type Manager struct {
	store         game.Store
	engine        *economy.Engine
	catalog       *game.Catalog
	locks         *game.ChatLocks
	elevation     Elevation
	startingMoney float64
}

func NewManager(store game.Store, engine *economy.Engine, catalog *game.Catalog, locks *game.ChatLocks, elevation Elevation, opts ...ManagerOpt) *Manager {
	m := &Manager{
		store:         store,
		engine:        engine,
		catalog:       catalog,
		locks:         locks,
		elevation:     elevation,
		startingMoney: game.StartingMoney,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// CreateGame starts a game in chatId. When one already exists it returns an
// *ExistingGameError describing it.
func (m *Manager) CreateGame(ctx context.Context, chatId, creatorId int64) (*game.Game, error) {
	unlock := m.locks.Lock(chatId)
	defer unlock()

	g := &game.Game{ChatId: chatId, CreatorId: creatorId}
	err := m.store.CreateGame(ctx, g)
	if errors.Is(err, game.ErrAlreadyExists) {
		existing, err := m.store.GetGame(ctx, chatId)
		if err != nil {
			return nil, err
		}
		p, err := m.load(ctx, existing, creatorId)
		if err != nil && !errors.Is(err, game.ErrPlayerNotFound) {
			return nil, err
		}
		return nil, &ExistingGameError{Game: existing, Player: p}
	}
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "game created", "chat", chatId, "creator", creatorId)
	return g, nil
}

// JoinGame returns the user's nation if they already play, or the free
// countries to choose from.
func (m *Manager) JoinGame(ctx context.Context, chatId, userId int64) (*JoinResult, error) {
	unlock := m.locks.Lock(chatId)
	defer unlock()

	g, err := m.store.GetGame(ctx, chatId)
	if err != nil {
		return nil, err
	}
	if g.WarActive {
		return nil, game.NewUserError(game.ErrWarInProgress, "you can't join during a war")
	}

	p, err := m.engine.Touch(ctx, userId, chatId)
	if err == nil {
		return &JoinResult{Player: p}, nil
	}
	if !errors.Is(err, game.ErrPlayerNotFound) {
		return nil, err
	}

	countries, err := m.freeCountries(ctx, chatId, "")
	if err != nil {
		return nil, err
	}
	return &JoinResult{Countries: countries}, nil
}

// SelectCountry creates the user's nation or moves it to another country.
// It reports whether a new player was created.
func (m *Manager) SelectCountry(ctx context.Context, userId, chatId int64, username, countryId string) (*game.Player, bool, error) {
	country := m.catalog.Get(countryId)
	if country == nil {
		return nil, false, game.NewUserError(game.ErrUnknownCountry, "there is no country %q", countryId)
	}

	unlock := m.locks.Lock(chatId)
	defer unlock()

	g, err := m.store.GetGame(ctx, chatId)
	if err != nil {
		return nil, false, err
	}
	if g.WarActive {
		return nil, false, game.NewUserError(game.ErrWarInProgress, "countries can't change during a war")
	}

	players, err := m.store.ListPlayers(ctx, chatId)
	if err != nil {
		return nil, false, fmt.Errorf("listing players: %w", err)
	}
	for _, other := range players {
		if other.UserId != userId && other.CountryId == countryId {
			return nil, false, game.NewUserError(game.ErrCountryTaken, "%s is already taken", country.Label())
		}
	}

	p, err := m.engine.Touch(ctx, userId, chatId)
	created := errors.Is(err, game.ErrPlayerNotFound)
	switch {
	case created:
		p = game.NewPlayer(userId, chatId, username, countryId, m.engine.Now())
		p.Money = m.startingMoney
	case err != nil:
		return nil, false, err
	default:
		// Income so far was earned under the old country.
		p.CountryId = countryId
		if username != "" {
			p.Username = username
		}
	}

	err = m.store.SavePlayers(ctx, p)
	if errors.Is(err, game.ErrCountryTaken) {
		return nil, false, game.NewUserError(game.ErrCountryTaken, "%s is already taken", country.Label())
	}
	if err != nil {
		return nil, false, err
	}

	slog.InfoContext(ctx, "country selected", "chat", chatId, "user", userId, "country", countryId, "new", created)
	return p, created, nil
}

// ChangeCountryPrompt lists the countries the user can move to. Changing is free.
func (m *Manager) ChangeCountryPrompt(ctx context.Context, userId, chatId int64) (*JoinResult, error) {
	unlock := m.locks.Lock(chatId)
	defer unlock()

	g, err := m.store.GetGame(ctx, chatId)
	if err != nil {
		return nil, err
	}
	if g.WarActive {
		return nil, game.NewUserError(game.ErrWarInProgress, "countries can't change during a war")
	}

	p, err := m.engine.Touch(ctx, userId, chatId)
	if err != nil {
		return nil, err
	}

	countries, err := m.freeCountries(ctx, chatId, p.CountryId)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Player: p, Countries: countries}, nil
}

func (m *Manager) UpgradeArmy(ctx context.Context, userId, chatId int64) (*Upgrade, error) {
	return m.upgrade(ctx, userId, chatId, func(c *game.Country, p *game.Player) (float64, *int) {
		return c.ArmyCost(p.ArmyLevel), &p.ArmyLevel
	})
}

func (m *Manager) UpgradeCity(ctx context.Context, userId, chatId int64) (*Upgrade, error) {
	return m.upgrade(ctx, userId, chatId, func(c *game.Country, p *game.Player) (float64, *int) {
		return c.CityCost(p.CityLevel), &p.CityLevel
	})
}

func (m *Manager) upgrade(ctx context.Context, userId, chatId int64, target func(*game.Country, *game.Player) (float64, *int)) (*Upgrade, error) {
	unlock := m.locks.Lock(chatId)
	defer unlock()

	g, err := m.store.GetGame(ctx, chatId)
	if err != nil {
		return nil, err
	}
	if g.WarActive {
		return nil, game.NewUserError(game.ErrWarInProgress, "upgrades are frozen during a war")
	}

	p, err := m.engine.Touch(ctx, userId, chatId)
	if err != nil {
		return nil, err
	}
	country := m.catalog.Get(p.CountryId)
	if country == nil {
		return nil, fmt.Errorf("player %d has unknown country %q", userId, p.CountryId)
	}

	cost, level := target(country, p)
	if p.Money < cost {
		return nil, game.InsufficientFunds(cost, p.Money)
	}
	p.Money = game.Round2(p.Money - cost)
	*level++

	if err := m.store.SavePlayers(ctx, p); err != nil {
		return nil, fmt.Errorf("saving upgrade: %w", err)
	}
	return &Upgrade{Player: p, Cost: cost, Level: *level}, nil
}

// AdminReset deletes the chat's game and every player in it.
func (m *Manager) AdminReset(ctx context.Context, chatId, requesterId int64) error {
	elevated, err := m.elevation.IsElevated(ctx, chatId, requesterId)
	if err != nil {
		slog.WarnContext(ctx, "elevation check failed", "chat", chatId, "user", requesterId, "error", err)
		elevated = false
	}
	if !elevated {
		return game.NewUserError(game.ErrNotElevated, "only chat admins can reset the game")
	}

	unlock := m.locks.Lock(chatId)
	defer unlock()

	if _, err := m.store.GetGame(ctx, chatId); err != nil {
		return err
	}
	if err := m.store.DeleteGame(ctx, chatId); err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}

	slog.InfoContext(ctx, "game reset", "chat", chatId, "by", requesterId)
	return nil
}

// TopPlayers ranks the chat by money, richest first. Ties keep join order.
func (m *Manager) TopPlayers(ctx context.Context, chatId int64) ([]*game.Player, error) {
	unlock := m.locks.Lock(chatId)
	defer unlock()

	players, err := m.ranked(ctx, chatId)
	if err != nil {
		return nil, err
	}
	if len(players) > TopLimit {
		players = players[:TopLimit]
	}
	return players, nil
}

// Menu is the main view of a player's nation.
func (m *Manager) Menu(ctx context.Context, userId, chatId int64) (*View, error) {
	unlock := m.locks.Lock(chatId)
	defer unlock()

	g, err := m.store.GetGame(ctx, chatId)
	if err != nil {
		return nil, err
	}
	p, err := m.load(ctx, g, userId)
	if err != nil {
		return nil, err
	}
	return m.view(g, p)
}

// Stats is the detailed view, with the player's place in the ranking.
func (m *Manager) Stats(ctx context.Context, userId, chatId int64) (*View, error) {
	unlock := m.locks.Lock(chatId)
	defer unlock()

	g, err := m.store.GetGame(ctx, chatId)
	if err != nil {
		return nil, err
	}
	players, err := m.ranked(ctx, chatId)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(players, func(p *game.Player) bool { return p.UserId == userId })
	if i < 0 {
		return nil, game.ErrPlayerNotFound
	}

	v, err := m.view(g, players[i])
	if err != nil {
		return nil, err
	}
	v.Rank = i + 1
	v.Players = len(players)
	return v, nil
}

// FindPlayerChat returns the chat the user plays in.
func (m *Manager) FindPlayerChat(ctx context.Context, userId int64) (int64, error) {
	return m.store.FindPlayerChat(ctx, userId)
}

// load returns the player, accruing income unless the chat is at war.
func (m *Manager) load(ctx context.Context, g *game.Game, userId int64) (*game.Player, error) {
	if g.WarActive {
		return m.store.GetPlayer(ctx, userId, g.ChatId)
	}
	return m.engine.Touch(ctx, userId, g.ChatId)
}

func (m *Manager) ranked(ctx context.Context, chatId int64) ([]*game.Player, error) {
	g, err := m.store.GetGame(ctx, chatId)
	if err != nil {
		return nil, err
	}

	var players []*game.Player
	if g.WarActive {
		players, err = m.store.ListPlayers(ctx, chatId)
	} else {
		players, err = m.engine.TouchAll(ctx, chatId)
	}
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(players, func(a, b *game.Player) int {
		switch {
		case a.Money > b.Money:
			return -1
		case a.Money < b.Money:
			return 1
		default:
			return 0
		}
	})
	return players, nil
}

func (m *Manager) view(g *game.Game, p *game.Player) (*View, error) {
	country := m.catalog.Get(p.CountryId)
	if country == nil {
		return nil, fmt.Errorf("player %d has unknown country %q", p.UserId, p.CountryId)
	}
	return &View{
		Game:            g,
		Player:          p,
		Country:         country,
		IncomePerSecond: country.IncomeRate(p.CityLevel),
		NextArmyCost:    country.ArmyCost(p.ArmyLevel),
		NextCityCost:    country.CityCost(p.CityLevel),
	}, nil
}

// freeCountries lists the catalog minus countries held in the chat. keep
// names a country to leave out as well.
func (m *Manager) freeCountries(ctx context.Context, chatId int64, keep string) ([]*game.Country, error) {
	players, err := m.store.ListPlayers(ctx, chatId)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}

	taken := make(map[string]bool, len(players)+1)
	for _, p := range players {
		taken[p.CountryId] = true
	}
	if keep != "" {
		taken[keep] = true
	}

	var free []*game.Country
	for _, c := range m.catalog.All() {
		if !taken[c.Id] {
			free = append(free, c)
		}
	}
	return free, nil
}
