package assets

type ResolverOpt func(*Resolver)

// WithPicker replaces the random choice among fallback images.
func WithPicker(pick func(n int) int) ResolverOpt {
	return func(r *Resolver) {
		r.pick = pick
	}
}
