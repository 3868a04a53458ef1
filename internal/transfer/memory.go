package transfer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type memoryEntry struct {
	pending Pending
	expires time.Time
}

// MemoryStore is a process-local PendingStore. Expired entries are ignored by
// Take and dropped by Tick.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int64]memoryEntry
}

var _ PendingStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store whose entries live for ttl. A ttl of zero
// keeps entries until they are taken.
func NewMemoryStore(ttl time.Duration, opts ...MemoryStoreOpt) *MemoryStore {
	s := &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int64]memoryEntry),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *MemoryStore) Put(_ context.Context, initiator int64, p Pending) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{pending: p}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	s.entries[initiator] = e
	return nil
}

func (s *MemoryStore) Take(_ context.Context, initiator int64) (*Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[initiator]
	if !ok {
		return nil, nil
	}
	delete(s.entries, initiator)

	if s.expired(e) {
		return nil, nil
	}
	return &e.pending, nil
}

func (s *MemoryStore) Delete(_ context.Context, initiator int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, initiator)
	return nil
}

// Tick drops expired entries.
func (s *MemoryStore) Tick(ctx context.Context) error {
	if purged := s.purge(); purged > 0 {
		slog.DebugContext(ctx, "purged expired transfers", "count", purged, "pending", s.Len())
	}
	return nil
}

func (s *MemoryStore) purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
			purged++
		}
	}
	return purged
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expires.IsZero() && !s.now().Before(e.expires)
}
