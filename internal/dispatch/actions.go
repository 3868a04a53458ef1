package dispatch

import (
	"context"
	"strings"

	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-nations/internal/transfer"
	"github.com/pixil98/go-nations/internal/war"
)

func (d *Dispatcher) stats(ctx context.Context, a *Action, _ string) (string, error) {
	v, err := d.games.Stats(ctx, a.UserId, a.gameChatId())
	if err != nil {
		return "", err
	}
	return "", d.replaceMenu(ctx, a, "stats", v, []Option{backOption(a.UserId)})
}

func (d *Dispatcher) top(ctx context.Context, a *Action, _ string) (string, error) {
	players, err := d.games.TopPlayers(ctx, a.gameChatId())
	if err != nil {
		return "", err
	}
	return "", d.replaceMenu(ctx, a, "top", players, []Option{backOption(a.UserId)})
}

func (d *Dispatcher) refresh(ctx context.Context, a *Action, _ string) (string, error) {
	return "", d.showActionMenu(ctx, a)
}

func (d *Dispatcher) upgradeArmy(ctx context.Context, a *Action, _ string) (string, error) {
	up, err := d.games.UpgradeArmy(ctx, a.UserId, a.gameChatId())
	if err != nil {
		return "", err
	}
	return d.render.printer.Sprintf("✅ Army upgraded to level %d!", up.Level), d.showActionMenu(ctx, a)
}

func (d *Dispatcher) upgradeCity(ctx context.Context, a *Action, _ string) (string, error) {
	up, err := d.games.UpgradeCity(ctx, a.UserId, a.gameChatId())
	if err != nil {
		return "", err
	}
	return d.render.printer.Sprintf("✅ City upgraded to level %d!", up.Level), d.showActionMenu(ctx, a)
}

func (d *Dispatcher) changeCountry(ctx context.Context, a *Action, _ string) (string, error) {
	res, err := d.games.ChangeCountryPrompt(ctx, a.UserId, a.gameChatId())
	if err != nil {
		return "", err
	}
	if len(res.Countries) == 0 {
		return "", game.NewUserError(game.ErrCountryTaken, "every other country is already taken")
	}
	opts := append(countryOptions(res.Countries), cancelOption(a.UserId))
	return "", d.replaceMenu(ctx, a, "change_country", res, opts)
}

func (d *Dispatcher) selectCountry(ctx context.Context, a *Action, countryId string) (string, error) {
	p, created, err := d.games.SelectCountry(ctx, a.UserId, a.gameChatId(), a.Username, countryId)
	if err != nil {
		return "", err
	}
	if err := d.showActionMenu(ctx, a); err != nil {
		return "", err
	}
	if created {
		return "✅ You joined as " + d.render.Country(p.CountryId), nil
	}
	return "✅ You now play as " + d.render.Country(p.CountryId), nil
}

func (d *Dispatcher) beginMoneyTransfer(ctx context.Context, a *Action, _ string) (string, error) {
	return d.beginTransfer(ctx, a, transfer.KindMoney)
}

func (d *Dispatcher) beginArmyTransfer(ctx context.Context, a *Action, _ string) (string, error) {
	return d.beginTransfer(ctx, a, transfer.KindArmy)
}

func (d *Dispatcher) beginTransfer(ctx context.Context, a *Action, kind transfer.Kind) (string, error) {
	t, err := d.transfers.Begin(ctx, a.UserId, a.gameChatId(), kind)
	if err != nil {
		return "", err
	}
	opts := append(d.render.playerOptions(transferTargetVerb(kind), t.Players), cancelOption(a.UserId))
	return "", d.replaceMenu(ctx, a, "transfer_targets", t, opts)
}

// selectTransferTarget handles "transfer_to:<kind>:<user>".
func (d *Dispatcher) selectTransferTarget(ctx context.Context, a *Action, arg string) (string, error) {
	rawKind, rawTarget, _ := strings.Cut(arg, ":")
	kind, err := transfer.ParseKind(rawKind)
	if err != nil {
		return "", err
	}
	target, err := parseUserId(rawTarget)
	if err != nil {
		return "", err
	}

	prompt, err := d.transfers.SelectTarget(ctx, a.UserId, a.gameChatId(), kind, target)
	if err != nil {
		return "", err
	}
	return "", d.replaceMenu(ctx, a, "transfer_prompt", prompt, []Option{cancelOption(a.UserId)})
}

func (d *Dispatcher) cancel(ctx context.Context, a *Action, _ string) (string, error) {
	if err := d.transfers.Cancel(ctx, a.UserId); err != nil {
		return "", err
	}
	return "❌ Cancelled", d.showActionMenu(ctx, a)
}

func (d *Dispatcher) declareWar(ctx context.Context, a *Action, _ string) (string, error) {
	t, err := d.wars.Declare(ctx, a.UserId, a.gameChatId())
	if err != nil {
		return "", err
	}
	opts := append(d.render.playerOptions(actWarTarget, t.Players), cancelOption(a.UserId))
	return "", d.replaceMenu(ctx, a, "war_targets", t, opts)
}

type warStart struct {
	*war.Battle
	Seconds int
}

func (d *Dispatcher) attack(ctx context.Context, a *Action, arg string) (string, error) {
	target, err := parseUserId(arg)
	if err != nil {
		return "", err
	}

	b, err := d.wars.Attack(ctx, a.UserId, a.gameChatId(), target)
	if err != nil {
		return "", err
	}

	start := warStart{Battle: b, Seconds: int(b.Ends.Sub(b.Started).Seconds())}
	if err := d.replaceMenu(ctx, a, "war_started", start, nil); err != nil {
		return "", err
	}
	if b.Image != "" {
		if err := d.notify(ctx, a.gameChatId(), "war_image", b, b.Image); err != nil {
			return "", err
		}
	}
	return "⚔️ War declared!", nil
}

// showActionMenu redraws the main menu in the message the action came from.
func (d *Dispatcher) showActionMenu(ctx context.Context, a *Action) error {
	return d.showMenuFor(ctx, a.ChatId, a.gameChatId(), a.MessageRef, a.UserId)
}

// replaceMenu renders tmpl into the message the action came from.
func (d *Dispatcher) replaceMenu(ctx context.Context, a *Action, tmpl string, data any, opts []Option) error {
	text, err := d.render.Render(tmpl, data)
	if err != nil {
		return err
	}
	return d.out.RenderMenu(ctx, &Menu{
		ChatId:     a.ChatId,
		MessageRef: a.MessageRef,
		Text:       text,
		Options:    opts,
	})
}
