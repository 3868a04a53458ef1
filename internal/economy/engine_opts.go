package economy

import "time"

type EngineOpt func(*Engine)

// WithClock sets the time source used to measure elapsed income time.
func WithClock(now func() time.Time) EngineOpt {
	return func(e *Engine) {
		e.now = now
	}
}
