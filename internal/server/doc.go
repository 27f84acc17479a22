// Package server runs the sync transports.
//
// The HTTP and gRPC servers share one lifecycle: both start together, the
// first failure or a termination signal stops both, and shutdown waits for
// in-flight pulls and pushes up to the configured timeout.
package server
