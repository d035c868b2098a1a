// Package lifecycle defines timing constants for component start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds start-up probes and graceful shutdowns.
const DefaultTimeout = 10 * time.Second
