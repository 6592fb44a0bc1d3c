// Package delivery defines the contract every transport server implements.
package delivery

import "context"

// Delivery is a runnable transport surface (HTTP, worker, ...). Servers are
// collected into an Fx value group and started together.
type Delivery interface {
	// Serve blocks running the server until it stops or fails.
	Serve(ctx context.Context) error
}
