package app

import "log/slog"

// cleanup is a stack of release functions for resources acquired while the
// application is being built.
type cleanup struct {
	steps []cleanupStep
}

type cleanupStep struct {
	name string
	fn   func() error
}

func (c *cleanup) add(name string, fn func() error) {
	c.steps = append(c.steps, cleanupStep{name: name, fn: fn})
}

// release runs every step, most recent first, and logs failures. The stack is
// empty afterwards.
func (c *cleanup) release(logger *slog.Logger) {
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.fn(); err != nil {
			logger.Error("release after failed startup",
				slog.String("resource", step.name),
				slog.String("error", err.Error()),
			)
		}
	}
	c.steps = nil
}
