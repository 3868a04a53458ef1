package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-nations/internal/dispatch"
	"github.com/pixil98/go-nations/internal/messaging"
	"golang.org/x/time/rate"
)

type DispatchConfig struct {
	ActionsPerSecond float64 `json:"actions_per_second"`
	Burst            int     `json:"burst"`
	ElevationTimeout string  `json:"elevation_timeout"`
}

func (c *DispatchConfig) validate() error {
	el := errors.NewErrorList()

	if c.ActionsPerSecond < 0 {
		el.Add(fmt.Errorf("actions_per_second must not be negative"))
	}
	if c.Burst < 0 {
		el.Add(fmt.Errorf("burst must not be negative"))
	}

	timeout, err := parseDuration("elevation_timeout", c.ElevationTimeout, messaging.DefaultElevationTimeout)
	if err != nil {
		el.Add(err)
	} else if timeout <= 0 {
		el.Add(fmt.Errorf("elevation_timeout must be positive"))
	}

	return el.Err()
}

func (c *DispatchConfig) buildLimiter() *dispatch.Limiter {
	limit := dispatch.DefaultRate
	if c.ActionsPerSecond > 0 {
		limit = rate.Limit(c.ActionsPerSecond)
	}
	burst := dispatch.DefaultBurst
	if c.Burst > 0 {
		burst = c.Burst
	}
	return dispatch.NewLimiter(limit, burst)
}

func (c *DispatchConfig) elevationTimeout() time.Duration {
	d, _ := parseDuration("elevation_timeout", c.ElevationTimeout, messaging.DefaultElevationTimeout)
	return d
}
