package warmup

import "fmt"

// InvalidConfigError reports a configuration value that makes the run
// impossible. It is surfaced before any request is dispatched.
type InvalidConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}
