package transfer

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pixil98/go-nations/internal/economy"
	"github.com/pixil98/go-nations/internal/game"
)

// NetShare is the part of a money transfer that reaches the receiver. The
// rest is commission and leaves the game.
const NetShare = 0.95

// Protocol runs the two-phase transfer flow: pick a target, then type an amount.
type Protocol struct {
	store   game.Store
	engine  *economy.Engine
	catalog *game.Catalog
	locks   *game.ChatLocks
	pending PendingStore
}

func NewProtocol(store game.Store, engine *economy.Engine, catalog *game.Catalog, locks *game.ChatLocks, pending PendingStore) *Protocol {
	return &Protocol{
		store:   store,
		engine:  engine,
		catalog: catalog,
		locks:   locks,
		pending: pending,
	}
}

// Targets is the first screen of a transfer.
type Targets struct {
	Kind      Kind
	Initiator *game.Player
	Players   []*game.Player
}

// Prompt asks the initiator for an amount once a target is chosen.
type Prompt struct {
	Kind     Kind
	Sender   *game.Player
	Receiver *game.Player
	// Army transfers only.
	CostPerLevel float64
	MaxLevels    int
}

// Result describes a completed transfer.
type Result struct {
	Kind     Kind
	ChatId   int64
	Sender   *game.Player
	Receiver *game.Player

	// Money transfers.
	Amount     float64
	Net        float64
	Commission float64

	// Army transfers.
	Levels int
	Cost   float64

	// NotifyChatId is set when the receiver plays in a chat other than the
	// one the amount was typed in.
	NotifyChatId int64
}

// Begin lists who the initiator can transfer to.
func (p *Protocol) Begin(ctx context.Context, initiator, chatId int64, kind Kind) (*Targets, error) {
	unlock := p.locks.Lock(chatId)
	defer unlock()

	if err := p.checkIdle(ctx, chatId); err != nil {
		return nil, err
	}

	players, err := p.store.ListPlayers(ctx, chatId)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	if len(players) < 2 {
		return nil, game.NewUserError(game.ErrNotEnoughPlayers, "at least two players are needed to transfer")
	}

	sender, err := p.engine.Touch(ctx, initiator, chatId)
	if err != nil {
		return nil, err
	}

	t := &Targets{Kind: kind, Initiator: sender}
	for _, pl := range players {
		if pl.UserId != initiator {
			t.Players = append(t.Players, pl)
		}
	}
	return t, nil
}

// SelectTarget records the pending transfer, replacing any earlier one.
func (p *Protocol) SelectTarget(ctx context.Context, initiator, chatId int64, kind Kind, target int64) (*Prompt, error) {
	if target == initiator {
		return nil, game.NewUserError(game.ErrSelfTarget, "you can't transfer to yourself")
	}

	unlock := p.locks.Lock(chatId)
	defer unlock()

	if err := p.checkIdle(ctx, chatId); err != nil {
		return nil, err
	}

	receiver, err := p.store.GetPlayer(ctx, target, chatId)
	if err != nil {
		return nil, err
	}
	sender, err := p.engine.Touch(ctx, initiator, chatId)
	if err != nil {
		return nil, err
	}

	err = p.pending.Put(ctx, initiator, Pending{TargetId: target, Kind: kind, ChatId: chatId})
	if err != nil {
		return nil, err
	}

	prompt := &Prompt{Kind: kind, Sender: sender, Receiver: receiver}
	if kind == KindArmy {
		if c := p.catalog.Get(sender.CountryId); c != nil {
			prompt.CostPerLevel = c.ArmyCost(sender.ArmyLevel)
		}
		prompt.MaxLevels = sender.ArmyLevel - 1
	}
	return prompt, nil
}

// Complete consumes the initiator's pending transfer and applies amount text
// to it. textChatId is the chat the text arrived in.
func (p *Protocol) Complete(ctx context.Context, initiator, textChatId int64, text string) (*Result, error) {
	pending, err := p.pending.Take(ctx, initiator)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, game.NewUserError(game.ErrNoPendingTransfer, "you have no active transfer")
	}

	var res *Result
	switch pending.Kind {
	case KindMoney:
		amount, err := ParseMoney(text)
		if err != nil {
			return nil, err
		}
		res, err = p.transferMoney(ctx, initiator, pending, amount)
		if err != nil {
			return nil, err
		}
	case KindArmy:
		levels, err := ParseLevels(text)
		if err != nil {
			return nil, err
		}
		res, err = p.transferArmy(ctx, initiator, pending, levels)
		if err != nil {
			return nil, err
		}
	default:
		return nil, game.NewUserError(game.ErrInvalidAction, "unknown transfer kind %q", pending.Kind)
	}

	receiverChat, err := p.store.FindPlayerChat(ctx, res.Receiver.UserId)
	if err == nil && receiverChat != textChatId {
		res.NotifyChatId = receiverChat
	}

	return res, nil
}

// Cancel drops the initiator's pending transfer, if any.
func (p *Protocol) Cancel(ctx context.Context, initiator int64) error {
	return p.pending.Delete(ctx, initiator)
}

func (p *Protocol) transferMoney(ctx context.Context, initiator int64, pending *Pending, amount float64) (*Result, error) {
	unlock := p.locks.Lock(pending.ChatId)
	defer unlock()

	sender, receiver, err := p.participants(ctx, initiator, pending)
	if err != nil {
		return nil, err
	}

	if amount > sender.Money {
		return nil, game.InsufficientFunds(amount, sender.Money)
	}

	net := game.Round2(amount * NetShare)
	sender.Money = game.Round2(sender.Money - amount)
	receiver.Money = game.Round2(receiver.Money + net)

	if err := p.store.SavePlayers(ctx, sender, receiver); err != nil {
		return nil, fmt.Errorf("saving money transfer: %w", err)
	}

	return &Result{
		Kind:       KindMoney,
		ChatId:     pending.ChatId,
		Sender:     sender,
		Receiver:   receiver,
		Amount:     amount,
		Net:        net,
		Commission: game.Round2(amount - net),
	}, nil
}

func (p *Protocol) transferArmy(ctx context.Context, initiator int64, pending *Pending, levels int) (*Result, error) {
	unlock := p.locks.Lock(pending.ChatId)
	defer unlock()

	sender, receiver, err := p.participants(ctx, initiator, pending)
	if err != nil {
		return nil, err
	}

	if maxLevels := sender.ArmyLevel - 1; levels > maxLevels {
		return nil, game.NewUserError(game.ErrInsufficientLevels, "you can transfer at most %d army levels", maxLevels)
	}

	country := p.catalog.Get(sender.CountryId)
	if country == nil {
		return nil, fmt.Errorf("player %d has unknown country %q", sender.UserId, sender.CountryId)
	}
	cost := country.ArmyCost(sender.ArmyLevel) * float64(levels)
	if sender.Money < cost {
		return nil, game.InsufficientFunds(cost, sender.Money)
	}

	sender.Money = game.Round2(sender.Money - cost)
	sender.ArmyLevel -= levels
	receiver.ArmyLevel += levels

	if err := p.store.SavePlayers(ctx, sender, receiver); err != nil {
		return nil, fmt.Errorf("saving army transfer: %w", err)
	}

	return &Result{
		Kind:     KindArmy,
		ChatId:   pending.ChatId,
		Sender:   sender,
		Receiver: receiver,
		Levels:   levels,
		Cost:     cost,
	}, nil
}

// participants re-checks the war flag under the chat lock and touches both sides.
func (p *Protocol) participants(ctx context.Context, initiator int64, pending *Pending) (*game.Player, *game.Player, error) {
	if err := p.checkIdle(ctx, pending.ChatId); err != nil {
		return nil, nil, err
	}

	sender, err := p.engine.Touch(ctx, initiator, pending.ChatId)
	if err != nil {
		return nil, nil, err
	}
	receiver, err := p.engine.Touch(ctx, pending.TargetId, pending.ChatId)
	if err != nil {
		return nil, nil, err
	}
	return sender, receiver, nil
}

func (p *Protocol) checkIdle(ctx context.Context, chatId int64) error {
	g, err := p.store.GetGame(ctx, chatId)
	if err != nil {
		return err
	}
	if g.WarActive {
		return game.NewUserError(game.ErrWarInProgress, "transfers are frozen during a war")
	}
	return nil
}

// ParseMoney reads a positive amount. Both "," and "." are accepted as the
// decimal separator. Amounts are kept to cents.
func ParseMoney(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, game.NewUserError(game.ErrInvalidAmount, "please enter a number")
	}
	v = game.Round2(v)
	if v <= 0 {
		return 0, game.NewUserError(game.ErrInvalidAmount, "the amount must be greater than 0")
	}
	return v, nil
}

// ParseLevels reads a positive whole number of army levels.
func ParseLevels(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, game.NewUserError(game.ErrInvalidAmount, "please enter a whole number")
	}
	if v <= 0 {
		return 0, game.NewUserError(game.ErrInvalidAmount, "the number of levels must be greater than 0")
	}
	return v, nil
}
