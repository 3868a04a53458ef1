package transfer

import "time"

type MemoryStoreOpt func(*MemoryStore)

func WithMemoryClock(now func() time.Time) MemoryStoreOpt {
	return func(s *MemoryStore) {
		s.now = now
	}
}
