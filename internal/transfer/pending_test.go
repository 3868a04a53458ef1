package transfer

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pixil98/go-nations/internal/gametest"
	"github.com/pixil98/go-testutil"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	first := Pending{TargetId: 2, Kind: KindMoney, ChatId: 10}
	second := Pending{TargetId: 3, Kind: KindArmy, ChatId: 10}

	tests := map[string]struct {
		ttl    time.Duration
		steps  func(s *MemoryStore, clock *gametest.Clock)
		exp    *Pending
		expLen int
	}{
		"take returns entry": {
			ttl: time.Minute,
			steps: func(s *MemoryStore, _ *gametest.Clock) {
				_ = s.Put(ctx, 1, first)
			},
			exp: &first,
		},
		"newer entry overwrites": {
			ttl: time.Minute,
			steps: func(s *MemoryStore, _ *gametest.Clock) {
				_ = s.Put(ctx, 1, first)
				_ = s.Put(ctx, 1, second)
			},
			exp: &second,
		},
		"expired entry is gone": {
			ttl: time.Minute,
			steps: func(s *MemoryStore, clock *gametest.Clock) {
				_ = s.Put(ctx, 1, first)
				clock.Advance(time.Minute)
			},
		},
		"zero ttl never expires": {
			steps: func(s *MemoryStore, clock *gametest.Clock) {
				_ = s.Put(ctx, 1, first)
				clock.Advance(24 * time.Hour)
			},
			exp: &first,
		},
		"deleted entry is gone": {
			ttl: time.Minute,
			steps: func(s *MemoryStore, _ *gametest.Clock) {
				_ = s.Put(ctx, 1, first)
				_ = s.Delete(ctx, 1)
			},
		},
		"other users untouched": {
			ttl: time.Minute,
			steps: func(s *MemoryStore, _ *gametest.Clock) {
				_ = s.Put(ctx, 2, first)
			},
			expLen: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			clock := gametest.NewClock()
			s := NewMemoryStore(tt.ttl, WithMemoryClock(clock.Now))
			tt.steps(s, clock)

			got, err := s.Take(ctx, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "found", got != nil, tt.exp != nil)
			if got != nil && tt.exp != nil {
				testutil.AssertEqual(t, "pending", *got, *tt.exp)
			}
			testutil.AssertEqual(t, "len", s.Len(), tt.expLen)
		})
	}
}

func TestMemoryStore_Tick(t *testing.T) {
	ctx := context.Background()
	clock := gametest.NewClock()
	s := NewMemoryStore(time.Minute, WithMemoryClock(clock.Now))

	_ = s.Put(ctx, 1, Pending{TargetId: 2, Kind: KindMoney, ChatId: 10})
	clock.Advance(30 * time.Second)
	_ = s.Put(ctx, 2, Pending{TargetId: 1, Kind: KindMoney, ChatId: 10})
	clock.Advance(45 * time.Second)

	if err := s.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "len", s.Len(), 1)

	got, _ := s.Take(ctx, 2)
	testutil.AssertEqual(t, "survivor", got != nil, true)
}

func TestParseKind(t *testing.T) {
	tests := map[string]struct {
		in     string
		exp    Kind
		expErr bool
	}{
		"money":   {in: "money", exp: KindMoney},
		"army":    {in: "army", exp: KindArmy},
		"unknown": {in: "gold", expErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.expErr {
				testutil.AssertErrorContains(t, err, "unknown transfer kind")
				return
			}
			testutil.AssertEqual(t, "kind", got, tt.exp)
		})
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("NATIONS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("NATIONS_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("pinging redis: %v", err)
	}

	s := NewRedisStore(client, time.Minute)
	initiator := time.Now().UnixNano()
	t.Cleanup(func() { _ = s.Delete(ctx, initiator) })

	p := Pending{TargetId: 2, Kind: KindArmy, ChatId: 10}
	if err := s.Put(ctx, initiator, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ttl, err := client.TTL(ctx, pendingKey(initiator)).Result()
	if err != nil {
		t.Fatalf("reading ttl: %v", err)
	}
	testutil.AssertEqual(t, "ttl set", ttl > 0 && ttl <= time.Minute, true)

	got, err := s.Take(ctx, initiator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "found", got != nil, true)
	testutil.AssertEqual(t, "pending", *got, p)

	got, err = s.Take(ctx, initiator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "consumed", got == nil, true)
}
