package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-nations/internal/lifecycle"
	"github.com/pixil98/go-nations/internal/transfer"
	"github.com/pixil98/go-nations/internal/war"
)

// actionFunc runs one action verb. The returned text is shown as the
// acknowledgement toast.
type actionFunc func(ctx context.Context, a *Action, arg string) (string, error)

type Dispatcher struct {
	games     *lifecycle.Manager
	transfers *transfer.Protocol
	wars      *war.Service
	render    *Renderer
	out       Outbound
	limiter   *Limiter

	actions map[string]actionFunc
}

func NewDispatcher(render *Renderer, out Outbound, games *lifecycle.Manager, transfers *transfer.Protocol, wars *war.Service, opts ...DispatcherOpt) *Dispatcher {
	d := &Dispatcher{
		games:     games,
		transfers: transfers,
		wars:      wars,
		render:    render,
		out:       out,
		limiter:   NewLimiter(DefaultRate, DefaultBurst),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.actions = map[string]actionFunc{
		actStats:          d.stats,
		actUpgradeArmy:    d.upgradeArmy,
		actUpgradeCity:    d.upgradeCity,
		actTop:            d.top,
		actStartWar:       d.declareWar,
		actRefresh:        d.refresh,
		actChangeCountry:  d.changeCountry,
		actTransferMoney:  d.beginMoneyTransfer,
		actTransferArmy:   d.beginArmyTransfer,
		actCancel:         d.cancel,
		actCountry:        d.selectCountry,
		actTransferTarget: d.selectTransferTarget,
		actWarTarget:      d.attack,
	}

	return d
}

// HandleCommand runs a slash command. Commands the engine doesn't know are
// ignored so the binding can share a chat with other bots.
func (d *Dispatcher) HandleCommand(ctx context.Context, c *Command) error {
	if !d.limiter.Allow(c.UserId) {
		slog.DebugContext(ctx, "command throttled", "chat", c.ChatId, "user", c.UserId)
		return nil
	}

	name := strings.ToLower(strings.TrimPrefix(c.Name, "/"))
	// "/game@some_bot" addresses a bot by name in groups.
	name, _, _ = strings.Cut(name, "@")

	switch name {
	case "start", "game", "join", "reset":
	default:
		return nil
	}

	if c.ChatType == ChatPrivate {
		return d.notify(ctx, c.ChatId, "private_only", nil, "")
	}

	switch name {
	case "start":
		return d.notify(ctx, c.ChatId, "help", nil, "")
	case "game":
		return d.createGame(ctx, c)
	case "join":
		return d.join(ctx, c)
	default:
		return d.reset(ctx, c)
	}
}

// HandleAction runs a menu option press and always answers it.
func (d *Dispatcher) HandleAction(ctx context.Context, a *Action) error {
	if !d.limiter.Allow(a.UserId) {
		return d.out.Acknowledge(ctx, &Ack{ActionId: a.ActionId, Payload: a.Payload, Text: "🐢 Slow down!"})
	}

	verb, arg, _ := strings.Cut(a.ActionId, ":")
	if ownedVerbs[verb] {
		owner, err := parseUserId(arg)
		if err != nil {
			return d.fail(ctx, a, err)
		}
		if owner != a.UserId {
			return d.fail(ctx, a, game.NewUserError(game.ErrNotOwner, "this is not your button!"))
		}
	}

	fn, ok := d.actions[verb]
	if !ok {
		return d.fail(ctx, a, game.NewUserError(game.ErrInvalidAction, "unknown action"))
	}

	if err := d.resolveGameChat(ctx, a); err != nil {
		return d.fail(ctx, a, err)
	}

	toast, err := fn(ctx, a, arg)
	if err != nil {
		return d.fail(ctx, a, err)
	}
	return d.out.Acknowledge(ctx, &Ack{ActionId: a.ActionId, Payload: a.Payload, Text: toast})
}

// resolveGameChat points a press at the game it belongs to. Group presses
// act on their own chat; private presses act on the game the user plays in.
func (d *Dispatcher) resolveGameChat(ctx context.Context, a *Action) error {
	if a.ChatType != ChatPrivate {
		a.gameChat = a.ChatId
		return nil
	}
	chatId, err := d.games.FindPlayerChat(ctx, a.UserId)
	if err != nil {
		return fmt.Errorf("finding game for user %d: %w", a.UserId, err)
	}
	a.gameChat = chatId
	return nil
}

// HandleText completes a pending transfer with the typed amount. Text from
// users with nothing pending is ordinary chat and is ignored.
func (d *Dispatcher) HandleText(ctx context.Context, t *FreeText) error {
	text := strings.TrimSpace(t.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}
	if !d.limiter.Allow(t.UserId) {
		slog.DebugContext(ctx, "text throttled", "chat", t.ChatId, "user", t.UserId)
		return nil
	}

	res, err := d.transfers.Complete(ctx, t.UserId, t.ChatId, text)
	if errors.Is(err, game.ErrNoPendingTransfer) {
		return nil
	}
	if err != nil {
		return d.replyError(ctx, t.ChatId, err)
	}

	if err := d.notify(ctx, t.ChatId, "transfer_done", res, ""); err != nil {
		return err
	}
	if res.NotifyChatId != 0 {
		if err := d.notify(ctx, res.NotifyChatId, "transfer_received", res, ""); err != nil {
			slog.WarnContext(ctx, "notifying transfer receiver", "chat", res.NotifyChatId, "error", err)
		}
	}
	if t.ChatId != res.ChatId {
		return nil
	}
	return d.showMenu(ctx, res.ChatId, "", t.UserId)
}

func (d *Dispatcher) createGame(ctx context.Context, c *Command) error {
	_, err := d.games.CreateGame(ctx, c.ChatId, c.UserId)
	var existing *lifecycle.ExistingGameError
	if errors.As(err, &existing) {
		if err := d.notify(ctx, c.ChatId, "game_exists", existing, ""); err != nil {
			return err
		}
		if existing.Player == nil {
			return nil
		}
		return d.showMenu(ctx, c.ChatId, "", c.UserId)
	}
	if err != nil {
		return d.replyError(ctx, c.ChatId, err)
	}
	return d.notify(ctx, c.ChatId, "game_created", nil, "")
}

func (d *Dispatcher) join(ctx context.Context, c *Command) error {
	res, err := d.games.JoinGame(ctx, c.ChatId, c.UserId)
	if err != nil {
		return d.replyError(ctx, c.ChatId, err)
	}
	if res.Player != nil {
		return d.showMenu(ctx, c.ChatId, "", c.UserId)
	}
	if len(res.Countries) == 0 {
		return d.replyError(ctx, c.ChatId, game.NewUserError(game.ErrCountryTaken, "every country is already taken"))
	}

	text, err := d.render.Render("choose_country", nil)
	if err != nil {
		return err
	}
	return d.out.RenderMenu(ctx, &Menu{ChatId: c.ChatId, Text: text, Options: countryOptions(res.Countries)})
}

func (d *Dispatcher) reset(ctx context.Context, c *Command) error {
	if err := d.games.AdminReset(ctx, c.ChatId, c.UserId); err != nil {
		return d.replyError(ctx, c.ChatId, err)
	}
	return d.notify(ctx, c.ChatId, "reset_done", nil, "")
}

// showMenu renders the player's main menu, replacing messageRef when set.
func (d *Dispatcher) showMenu(ctx context.Context, chatId int64, messageRef string, userId int64) error {
	return d.showMenuFor(ctx, chatId, chatId, messageRef, userId)
}

// showMenuFor renders the menu of the game in gameChatId into chatId.
func (d *Dispatcher) showMenuFor(ctx context.Context, chatId, gameChatId int64, messageRef string, userId int64) error {
	v, err := d.games.Menu(ctx, userId, gameChatId)
	if err != nil {
		return err
	}
	text, err := d.render.Render("menu", v)
	if err != nil {
		return err
	}
	return d.out.RenderMenu(ctx, &Menu{
		ChatId:     chatId,
		MessageRef: messageRef,
		Text:       text,
		Options:    mainOptions(userId),
	})
}

func (d *Dispatcher) notify(ctx context.Context, chatId int64, tmpl string, data any, image string) error {
	text, err := d.render.Render(tmpl, data)
	if err != nil {
		return err
	}
	return d.out.SendNotification(ctx, &Notification{ChatId: chatId, Text: text, ImageRef: image})
}

// replyError answers a command or text in its chat. Only delivery failures
// are returned.
func (d *Dispatcher) replyError(ctx context.Context, chatId int64, err error) error {
	text, internal := describe(err)
	if internal {
		slog.ErrorContext(ctx, "request failed", "chat", chatId, "error", err)
	}
	return d.out.SendNotification(ctx, &Notification{ChatId: chatId, Text: text})
}

func (d *Dispatcher) fail(ctx context.Context, a *Action, err error) error {
	text, internal := describe(err)
	if internal {
		slog.ErrorContext(ctx, "action failed", "action", a.ActionId, "chat", a.ChatId, "user", a.UserId, "error", err)
	}
	if ackErr := d.out.Acknowledge(ctx, &Ack{ActionId: a.ActionId, Payload: a.Payload, Text: text, Emphasize: true}); ackErr != nil {
		return fmt.Errorf("acknowledging %s: %w", a.ActionId, ackErr)
	}
	return nil
}
