package dispatch

type DispatcherOpt func(*Dispatcher)

// WithLimiter replaces the per-user flood protection.
func WithLimiter(l *Limiter) DispatcherOpt {
	return func(d *Dispatcher) {
		d.limiter = l
	}
}
