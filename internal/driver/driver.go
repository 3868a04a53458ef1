package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

// Ticker is periodic background work.
type Ticker interface {
	Tick(context.Context) error
}

// Driver runs every registered Ticker once per tick.
type Driver struct {
	tickLength time.Duration
	tickers    map[string]Ticker
}

func NewDriver(tickers map[string]Ticker, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		tickers:    tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start ticks until ctx is done. A failing tick is logged and retried on
// the next one.
func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				slog.ErrorContext(ctx, "tick failed", "error", err)
			}
		}
	}
}

// Tick runs every ticker in name order. All of them run even when one fails.
func (d *Driver) Tick(ctx context.Context) error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(d.tickers)) {
		if err := d.tickers[name].Tick(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
