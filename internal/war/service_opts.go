package war

import "time"

type ServiceOpt func(*Service)

func WithDuration(d time.Duration) ServiceOpt {
	return func(s *Service) {
		s.duration = d
	}
}

func WithCooldown(d time.Duration) ServiceOpt {
	return func(s *Service) {
		s.cooldown = d
	}
}

func WithClock(now func() time.Time) ServiceOpt {
	return func(s *Service) {
		s.now = now
	}
}

// WithRandom replaces the uniform [0, 1) source used for battle luck.
func WithRandom(roll func() float64) ServiceOpt {
	return func(s *Service) {
		s.roll = roll
	}
}

func WithIdGenerator(newId func() string) ServiceOpt {
	return func(s *Service) {
		s.newId = newId
	}
}
