// Package workers runs the background loops of sync clients.
//
// A [Worker] blocks in Run until its context is cancelled or it fails.
// [Workers] runs several of them together and stops all of them when one
// fails.
package workers

import "context"

// Worker is a long-running background loop.
//
// Run blocks until ctx is cancelled, returning nil, or until the worker
// cannot continue, returning the cause.
type Worker interface {
	Run(ctx context.Context) error
}
