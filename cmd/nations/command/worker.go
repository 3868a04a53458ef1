package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pixil98/go-nations/internal/dispatch"
	"github.com/pixil98/go-nations/internal/driver"
	"github.com/pixil98/go-nations/internal/economy"
	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-nations/internal/lifecycle"
	"github.com/pixil98/go-nations/internal/messaging"
	"github.com/pixil98/go-nations/internal/transfer"
	"github.com/pixil98/go-nations/internal/war"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Persistence and static data
	store, err := cfg.Storage.openStore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	closers := closer{"database": store}

	catalog, err := cfg.Storage.loadCatalog()
	if err != nil {
		closers.close()
		return nil, err
	}

	locks := game.NewChatLocks()
	engine := economy.NewEngine(store, catalog)

	pending, memPending, redisClient := cfg.Pending.pendingStore()
	if redisClient != nil {
		closers["redis"] = redisClient
	}

	// Message bus
	bus, err := cfg.Nats.buildNatsServer()
	if err != nil {
		closers.close()
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	out := dispatch.NewBusOutbound(messaging.NewJSONPublisher(bus))

	render, err := dispatch.NewRenderer(catalog)
	if err != nil {
		closers.close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	// Game services
	wars := war.NewService(store, engine, catalog, locks,
		cfg.Storage.buildResolver(catalog),
		dispatch.NewWarNotifier(render, out),
		cfg.Game.warOpts()...)

	elevation := messaging.NewElevationClient(bus, cfg.Dispatch.elevationTimeout())
	games := lifecycle.NewManager(store, engine, catalog, locks, elevation, cfg.Game.managerOpts()...)
	transfers := transfer.NewProtocol(store, engine, catalog, locks, pending)

	limiter := cfg.Dispatch.buildLimiter()
	dispatcher := dispatch.NewDispatcher(render, out, games, transfers, wars, dispatch.WithLimiter(limiter))

	// Background ticks
	tickers := map[string]driver.Ticker{
		"sweep":   economy.NewSweeper(engine, store, locks),
		"limiter": limiter,
	}
	if memPending != nil {
		tickers["pending"] = memPending
	}

	return service.WorkerList{
		"nats":     bus,
		"wars":     wars,
		"listener": dispatch.NewBusListener(bus, dispatcher),
		"driver":   driver.NewDriver(tickers, driver.WithTickLength(cfg.Game.sweepInterval())),
		"closer":   closers,
	}, nil
}

// closer releases long lived connections once the app shuts down.
type closer map[string]io.Closer

func (c closer) Start(ctx context.Context) error {
	<-ctx.Done()
	c.close()
	return nil
}

func (c closer) close() {
	for name, cl := range c {
		if err := cl.Close(); err != nil {
			slog.Warn("closing connection", "name", name, "error", err)
		}
	}
}
