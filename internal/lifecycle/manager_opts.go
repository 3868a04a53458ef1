package lifecycle

type ManagerOpt func(*Manager)

// WithStartingMoney sets the balance new players start with.
func WithStartingMoney(money float64) ManagerOpt {
	return func(m *Manager) {
		m.startingMoney = money
	}
}
