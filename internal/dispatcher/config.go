package dispatcher

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables dispatch timing and statistics collection.
	EnableMetrics bool

	// RecoverFromPanic wraps each transaction in panic recovery.
	RecoverFromPanic bool

	// ValidatePositions checks the interval invariants of the clone before
	// committing and aborts the transaction on a violation.
	ValidatePositions bool

	// MaxSelections limits how many selection entries one request may carry.
	// Zero means no limit.
	MaxSelections int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:     false,
		RecoverFromPanic:  true,
		ValidatePositions: true,
		MaxSelections:     0,
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithValidation returns a copy of the config with position validation set.
func (c Config) WithValidation(validate bool) Config {
	c.ValidatePositions = validate
	return c
}

// WithMaxSelections returns a copy of the config with the selection limit set.
func (c Config) WithMaxSelections(max int) Config {
	c.MaxSelections = max
	return c
}
