package dispatch

import (
	"fmt"
	"strconv"

	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-nations/internal/transfer"
)

// Action verbs. Owned verbs carry the owner's user id as their argument.
const (
	actStats          = "stats"
	actUpgradeArmy    = "upgrade_army"
	actUpgradeCity    = "upgrade_city"
	actTop            = "top"
	actStartWar       = "start_war"
	actRefresh        = "refresh"
	actChangeCountry  = "change_country"
	actTransferMoney  = "transfer_money"
	actTransferArmy   = "transfer_army"
	actCancel         = "cancel"
	actCountry        = "country"
	actTransferTarget = "transfer_to"
	actWarTarget      = "war_target"
)

var ownedVerbs = map[string]bool{
	actStats:         true,
	actUpgradeArmy:   true,
	actUpgradeCity:   true,
	actTop:           true,
	actStartWar:      true,
	actRefresh:       true,
	actChangeCountry: true,
	actTransferMoney: true,
	actTransferArmy:  true,
	actCancel:        true,
}

func actionId(verb string, arg any) string {
	return fmt.Sprintf("%s:%v", verb, arg)
}

func mainOptions(userId int64) []Option {
	return []Option{
		{Label: "💰 Statistics", ActionId: actionId(actStats, userId)},
		{Label: "⚔️ Upgrade army", ActionId: actionId(actUpgradeArmy, userId)},
		{Label: "🏙️ Upgrade city", ActionId: actionId(actUpgradeCity, userId)},
		{Label: "🌍 Top players", ActionId: actionId(actTop, userId)},
		{Label: "⚔️ Start a war", ActionId: actionId(actStartWar, userId)},
		{Label: "🔄 Refresh", ActionId: actionId(actRefresh, userId)},
		{Label: "🔄 Change country", ActionId: actionId(actChangeCountry, userId)},
		{Label: "💸 Transfer money", ActionId: actionId(actTransferMoney, userId)},
		{Label: "🎖️ Transfer army", ActionId: actionId(actTransferArmy, userId)},
	}
}

func backOption(userId int64) Option {
	return Option{Label: "⬅️ Back", ActionId: actionId(actRefresh, userId)}
}

func cancelOption(userId int64) Option {
	return Option{Label: "❌ Cancel", ActionId: actionId(actCancel, userId)}
}

func countryOptions(countries []*game.Country) []Option {
	opts := make([]Option, 0, len(countries))
	for _, c := range countries {
		opts = append(opts, Option{Label: c.Label(), ActionId: actionId(actCountry, c.Id)})
	}
	return opts
}

// playerOptions offers one button per player, each running verb on them.
func (r *Renderer) playerOptions(verb string, players []*game.Player) []Option {
	opts := make([]Option, 0, len(players)+1)
	for _, p := range players {
		opts = append(opts, Option{
			Label:    r.Country(p.CountryId) + " " + p.Username,
			ActionId: actionId(verb, p.UserId),
		})
	}
	return opts
}

func transferTargetVerb(kind transfer.Kind) string {
	return actTransferTarget + ":" + string(kind)
}

func parseUserId(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, game.NewUserError(game.ErrInvalidAction, "unknown action")
	}
	return id, nil
}
