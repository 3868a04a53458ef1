package driver

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type countingTicker struct {
	mu    sync.Mutex
	ticks int
	err   error
	order *[]string
	name  string
}

func (c *countingTicker) Tick(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
	if c.order != nil {
		*c.order = append(*c.order, c.name)
	}
	return c.err
}

func (c *countingTicker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

func TestDriver_Tick(t *testing.T) {
	tests := map[string]struct {
		errs     map[string]error
		expOrder string
		expErr   string
	}{
		"all succeed": {
			expOrder: "limiter pending sweep",
		},
		"failure does not stop the rest": {
			errs:     map[string]error{"pending": errors.New("redis down")},
			expOrder: "limiter pending sweep",
			expErr:   "pending: redis down",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var order []string
			tickers := map[string]Ticker{}
			for _, n := range []string{"sweep", "pending", "limiter"} {
				tickers[n] = &countingTicker{name: n, order: &order, err: tt.errs[n]}
			}

			err := NewDriver(tickers).Tick(context.Background())
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "order", strings.Join(order, " "), tt.expOrder)
		})
	}
}

func TestDriver_Start(t *testing.T) {
	ok := &countingTicker{}
	failing := &countingTicker{err: errors.New("boom")}
	d := NewDriver(map[string]Ticker{"ok": ok, "failing": failing}, WithTickLength(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for ok.count() < 3 {
		select {
		case <-deadline:
			t.Fatal("driver never ticked")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "failing ticker kept running", failing.count() >= 3, true)
}
