package economy

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-nations/internal/gametest"
	"github.com/pixil98/go-testutil"
)

func newTestEngine(t *testing.T) (*Engine, *gametest.Clock, game.Store) {
	t.Helper()
	clock := gametest.NewClock()
	store := gametest.NewStore(t)
	return NewEngine(store, game.DefaultCatalog(), WithClock(clock.Now)), clock, store
}

func TestEngine_Income(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	tests := map[string]struct {
		country   string
		cityLevel int
		elapsed   time.Duration
		exp       float64
	}{
		"ten seconds russia": {
			country:   "russia",
			cityLevel: 1,
			elapsed:   10 * time.Second,
			exp:       100,
		},
		"city level multiplies": {
			country:   "finland",
			cityLevel: 3,
			elapsed:   2 * time.Second,
			exp:       30,
		},
		"fractional seconds round to cents": {
			country:   "turkey",
			cityLevel: 1,
			elapsed:   1234567 * time.Microsecond,
			exp:       8.64,
		},
		"no time elapsed": {
			country:   "russia",
			cityLevel: 1,
			elapsed:   0,
			exp:       0,
		},
		"clock behind last income": {
			country:   "russia",
			cityLevel: 1,
			elapsed:   -5 * time.Second,
			exp:       0,
		},
		"unknown country": {
			country:   "atlantis",
			cityLevel: 1,
			elapsed:   10 * time.Second,
			exp:       0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := &game.Player{CountryId: tt.country, CityLevel: tt.cityLevel, LastIncome: clock.Now()}
			got := e.Income(p, clock.Now().Add(tt.elapsed))
			testutil.AssertEqual(t, "income", got, tt.exp)
		})
	}
}

func TestEngine_Income_Monotonic(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	p := &game.Player{CountryId: "spain", CityLevel: 2, LastIncome: clock.Now()}

	prev := 0.0
	for _, s := range []int{1, 2, 5, 30, 600} {
		got := e.Income(p, clock.Now().Add(time.Duration(s)*time.Second))
		if got <= prev {
			t.Fatalf("income after %ds = %v, want more than %v", s, got, prev)
		}
		prev = got
	}
}

func TestEngine_Accrue(t *testing.T) {
	e, clock, store := newTestEngine(t)
	ctx := context.Background()

	gametest.SeedGame(t, store, 555, 1)
	gametest.SeedPlayer(t, store, 1, 555, "russia", clock.Now())

	clock.Advance(10 * time.Second)

	p := gametest.MustPlayer(t, store, 1, 555)
	income, err := e.Accrue(ctx, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "income", income, 100.0)
	testutil.AssertEqual(t, "money", p.Money, 1100.0)

	stored := gametest.MustPlayer(t, store, 1, 555)
	testutil.AssertEqual(t, "stored money", stored.Money, 1100.0)
	testutil.AssertEqual(t, "stored last income", stored.LastIncome.Equal(clock.Now()), true)

	// Immediately again: nothing left to credit.
	income, err = e.Accrue(ctx, stored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "second income", income, 0.0)
	testutil.AssertEqual(t, "money after second", gametest.MustPlayer(t, store, 1, 555).Money, 1100.0)
}

func TestEngine_Accrue_StaleReadAppliesOnce(t *testing.T) {
	e, clock, store := newTestEngine(t)
	ctx := context.Background()

	gametest.SeedGame(t, store, 7, 1)
	gametest.SeedPlayer(t, store, 1, 7, "sweden", clock.Now())
	clock.Advance(5 * time.Second)

	first := gametest.MustPlayer(t, store, 1, 7)
	second := gametest.MustPlayer(t, store, 1, 7)

	income, err := e.Accrue(ctx, first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "first income", income, 30.0)

	income, err = e.Accrue(ctx, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "second income", income, 0.0)
	testutil.AssertEqual(t, "second copy refreshed", second.Money, 1030.0)
	testutil.AssertEqual(t, "second copy clock", second.LastIncome.Equal(clock.Now()), true)
	testutil.AssertEqual(t, "stored money", gametest.MustPlayer(t, store, 1, 7).Money, 1030.0)

	// Saving the losing copy must not undo the credit.
	if err := store.SavePlayers(ctx, second); err != nil {
		t.Fatalf("saving: %v", err)
	}
	testutil.AssertEqual(t, "money after save", gametest.MustPlayer(t, store, 1, 7).Money, 1030.0)
}

func TestEngine_Accrue_Concurrent(t *testing.T) {
	e, clock, store := newTestEngine(t)
	ctx := context.Background()

	gametest.SeedGame(t, store, 7, 1)
	gametest.SeedPlayer(t, store, 1, 7, "sweden", clock.Now())
	clock.Advance(5 * time.Second)

	const readers = 8
	copies := make([]*game.Player, readers)
	for i := range copies {
		copies[i] = gametest.MustPlayer(t, store, 1, 7)
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total float64
	)
	for _, p := range copies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			income, err := e.Accrue(ctx, p)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			total += income
			mu.Unlock()
		}()
	}
	wg.Wait()

	testutil.AssertEqual(t, "credited once", total, 30.0)
	testutil.AssertEqual(t, "stored money", gametest.MustPlayer(t, store, 1, 7).Money, 1030.0)
	for _, p := range copies {
		testutil.AssertEqual(t, "copy", p.Money, 1030.0)
	}
}

func TestEngine_Touch(t *testing.T) {
	e, clock, store := newTestEngine(t)
	ctx := context.Background()

	gametest.SeedGame(t, store, 9, 1)
	gametest.SeedPlayer(t, store, 1, 9, "ukraine", clock.Now(), func(p *game.Player) { p.CityLevel = 2 })
	clock.Advance(3 * time.Second)

	p, err := e.Touch(ctx, 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "money", p.Money, 1048.0)

	_, err = e.Touch(ctx, 2, 9)
	testutil.AssertErrorContains(t, err, game.ErrPlayerNotFound.Error())
}
