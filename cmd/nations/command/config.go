package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Game     GameConfig     `json:"game"`
	Storage  StorageConfig  `json:"storage"`
	Pending  PendingConfig  `json:"pending"`
	Nats     NatsConfig     `json:"nats"`
	Dispatch DispatchConfig `json:"dispatch"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Game.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Pending.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Dispatch.validate())

	return el.Err()
}

// parseDuration returns def for an empty value.
func parseDuration(name, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", name, err)
	}
	return d, nil
}
