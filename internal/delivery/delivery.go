// Package delivery defines the inbound adapters started by the binaries.
package delivery

import "context"

// Delivery is a server started by the fx application and stopped through its lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
