package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pixil98/go-nations/internal/messaging"
)

// Subscriber is the inbound side of the message bus.
type Subscriber interface {
	Ready() <-chan struct{}
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// BusListener feeds inbound bus events to a Dispatcher.
type BusListener struct {
	sub        Subscriber
	dispatcher *Dispatcher
}

func NewBusListener(sub Subscriber, dispatcher *Dispatcher) *BusListener {
	return &BusListener{sub: sub, dispatcher: dispatcher}
}

// Start waits for the bus, subscribes to the inbound subjects and serves
// them until ctx is done.
func (l *BusListener) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-l.sub.Ready():
	}

	// Events are handled concurrently. Handlers in flight finish before
	// Start returns.
	handlerCtx := context.WithoutCancel(ctx)
	routes := map[string]func([]byte) error{
		messaging.SubjectCommand: decodeInto(handlerCtx, l.dispatcher.HandleCommand),
		messaging.SubjectAction:  decodeInto(handlerCtx, l.dispatcher.HandleAction),
		messaging.SubjectText:    decodeInto(handlerCtx, l.dispatcher.HandleText),
	}
	var (
		mu      sync.Mutex
		stopped bool
		wg      sync.WaitGroup
	)
	spawn := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	var unsubs []func()
	defer func() {
		for _, u := range unsubs {
			u()
		}
		mu.Lock()
		stopped = true
		mu.Unlock()
		wg.Wait()
	}()

	for subject, handle := range routes {
		unsub, err := l.sub.Subscribe(subject, func(data []byte) {
			spawn(func() {
				if err := handle(data); err != nil {
					slog.ErrorContext(handlerCtx, "handling event", "subject", subject, "error", err)
				}
			})
		})
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", subject, err)
		}
		unsubs = append(unsubs, unsub)
	}

	slog.InfoContext(ctx, "listening for chat events")
	<-ctx.Done()
	return nil
}

func decodeInto[T any](ctx context.Context, handle func(context.Context, *T) error) func([]byte) error {
	return func(data []byte) error {
		var ev T
		if err := json.Unmarshal(data, &ev); err != nil {
			return fmt.Errorf("decoding event: %w", err)
		}
		return handle(ctx, &ev)
	}
}
