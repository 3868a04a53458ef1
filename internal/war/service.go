// Package war runs the war state machine: declare, pick a target, wait out
// the war duration, then resolve and cool down.
package war

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-nations/internal/economy"
	"github.com/pixil98/go-nations/internal/game"
)

const (
	DefaultDuration = 30 * time.Second
	DefaultCooldown = 60 * time.Second
)

// ImageResolver finds the image announcing a war started by a country.
type ImageResolver interface {
	ResolveWarImage(countryId string) string
}

// Notifier receives wars as they resolve. Resolution happens on a timer,
// outside of any request, so results are pushed rather than returned.
type Notifier interface {
	WarResolved(ctx context.Context, r *Resolution) error
}

// Targets is what a player can attack after declaring war.
type Targets struct {
	Initiator *game.Player
	Players   []*game.Player
}

// Battle is a war that has just started.
type Battle struct {
	ChatId   int64
	WarId    string
	Attacker *game.Player
	Defender *game.Player
	Started  time.Time
	Ends     time.Time
	// Image is a path to the announcement image, or "" when there is none.
	Image string
}

// Service owns war transitions and the resolution timers.
type Service struct {
	store    game.Store
	engine   *economy.Engine
	catalog  *game.Catalog
	locks    *game.ChatLocks
	images   ImageResolver
	notifier Notifier

	duration time.Duration
	cooldown time.Duration
	now      func() time.Time
	roll     func() float64
	newId    func() string

	mu     sync.Mutex
	base   context.Context
	timers map[string]*time.Timer
}

func NewService(store game.Store, engine *economy.Engine, catalog *game.Catalog, locks *game.ChatLocks, images ImageResolver, notifier Notifier, opts ...ServiceOpt) *Service {
	s := &Service{
		store:    store,
		engine:   engine,
		catalog:  catalog,
		locks:    locks,
		images:   images,
		notifier: notifier,
		duration: DefaultDuration,
		cooldown: DefaultCooldown,
		now:      time.Now,
		roll:     rand.Float64,
		newId:    func() string { return uuid.New().String() },
		base:     context.Background(),
		timers:   make(map[string]*time.Timer),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Declare checks that the initiator may start a war and lists the targets.
func (s *Service) Declare(ctx context.Context, initiator, chatId int64) (*Targets, error) {
	unlock := s.locks.Lock(chatId)
	defer unlock()

	if err := s.checkReady(ctx, chatId); err != nil {
		return nil, err
	}

	players, err := s.store.ListPlayers(ctx, chatId)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	if len(players) < 2 {
		return nil, game.NewUserError(game.ErrNotEnoughPlayers, "at least two players are needed for a war")
	}

	attacker, err := s.engine.Touch(ctx, initiator, chatId)
	if err != nil {
		return nil, err
	}

	t := &Targets{Initiator: attacker}
	for _, p := range players {
		if p.UserId != initiator {
			t.Players = append(t.Players, p)
		}
	}
	return t, nil
}

// Attack starts a war between initiator and target and arms its resolution.
func (s *Service) Attack(ctx context.Context, initiator, chatId, target int64) (*Battle, error) {
	if target == initiator {
		return nil, game.NewUserError(game.ErrSelfTarget, "you can't declare war on yourself")
	}

	unlock := s.locks.Lock(chatId)
	defer unlock()

	if err := s.checkReady(ctx, chatId); err != nil {
		return nil, err
	}

	attacker, err := s.engine.Touch(ctx, initiator, chatId)
	if err != nil {
		return nil, err
	}
	defender, err := s.engine.Touch(ctx, target, chatId)
	if err != nil {
		return nil, err
	}

	warId := s.newId()
	started := s.now()
	err = s.store.BeginWar(ctx, chatId, attacker.UserId, defender.UserId, warId, started)
	if errors.Is(err, game.ErrWarInProgress) {
		return nil, game.NewUserError(game.ErrWarInProgress, "a war is already under way")
	}
	if err != nil {
		return nil, err
	}

	s.arm(chatId, warId, s.duration)
	slog.InfoContext(ctx, "war started", "chat", chatId, "war", warId, "attacker", attacker.UserId, "defender", defender.UserId)

	return &Battle{
		ChatId:   chatId,
		WarId:    warId,
		Attacker: attacker,
		Defender: defender,
		Started:  started,
		Ends:     started.Add(s.duration),
		Image:    s.images.ResolveWarImage(attacker.CountryId),
	}, nil
}

// checkReady rejects a new war while one runs or the chat is cooling down.
func (s *Service) checkReady(ctx context.Context, chatId int64) error {
	g, err := s.store.GetGame(ctx, chatId)
	if err != nil {
		return err
	}
	if g.WarActive {
		return game.NewUserError(game.ErrWarInProgress, "a war is already under way")
	}
	if left := g.CooldownRemaining(s.now(), s.cooldown); left > 0 {
		return game.NewUserError(game.ErrCooldown, "next war possible in %d seconds", int(math.Ceil(left.Seconds())))
	}
	return nil
}
