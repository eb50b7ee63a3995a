// Package health provides health check implementations for the discovery
// service's external dependencies.
package health

import "context"

// Checker reports the health of one dependency.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// Check runs every named checker and returns the failures by name. An empty
// map means healthy.
func Check(ctx context.Context, checkers map[string]Checker) map[string]error {
	failures := make(map[string]error)
	for name, c := range checkers {
		if err := c.HealthCheck(ctx); err != nil {
			failures[name] = err
		}
	}
	return failures
}
