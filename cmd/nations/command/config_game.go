package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-nations/internal/lifecycle"
	"github.com/pixil98/go-nations/internal/war"
)

const (
	defaultSweepInterval = time.Second
	minSweepInterval     = time.Second
	maxSweepInterval     = 5 * time.Second
)

type GameConfig struct {
	SweepInterval string  `json:"sweep_interval"`
	WarDuration   string  `json:"war_duration"`
	WarCooldown   string  `json:"war_cooldown"`
	StartingMoney float64 `json:"starting_money"`
}

func (c *GameConfig) validate() error {
	el := errors.NewErrorList()

	sweep, err := parseDuration("sweep_interval", c.SweepInterval, defaultSweepInterval)
	if err != nil {
		el.Add(err)
	} else if sweep < minSweepInterval || sweep > maxSweepInterval {
		el.Add(fmt.Errorf("sweep_interval must be between %s and %s", minSweepInterval, maxSweepInterval))
	}

	duration, err := parseDuration("war_duration", c.WarDuration, war.DefaultDuration)
	if err != nil {
		el.Add(err)
	} else if duration <= 0 {
		el.Add(fmt.Errorf("war_duration must be positive"))
	}

	cooldown, err := parseDuration("war_cooldown", c.WarCooldown, war.DefaultCooldown)
	if err != nil {
		el.Add(err)
	} else if cooldown < 0 {
		el.Add(fmt.Errorf("war_cooldown must not be negative"))
	}

	if c.StartingMoney < 0 {
		el.Add(fmt.Errorf("starting_money must not be negative"))
	}

	return el.Err()
}

func (c *GameConfig) sweepInterval() time.Duration {
	d, _ := parseDuration("sweep_interval", c.SweepInterval, defaultSweepInterval)
	return d
}

func (c *GameConfig) warOpts() []war.ServiceOpt {
	duration, _ := parseDuration("war_duration", c.WarDuration, war.DefaultDuration)
	cooldown, _ := parseDuration("war_cooldown", c.WarCooldown, war.DefaultCooldown)
	return []war.ServiceOpt{war.WithDuration(duration), war.WithCooldown(cooldown)}
}

func (c *GameConfig) managerOpts() []lifecycle.ManagerOpt {
	money := c.StartingMoney
	if money == 0 {
		money = game.StartingMoney
	}
	return []lifecycle.ManagerOpt{lifecycle.WithStartingMoney(money)}
}
