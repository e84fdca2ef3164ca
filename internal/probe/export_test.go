package probe

// NewWithStrategies returns a Prober running the given strategies, in order.
func NewWithStrategies(strategies ...Strategy) *Prober {
	return &Prober{strategies: strategies}
}
