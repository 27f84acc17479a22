// Package http implements the HTTP transport of the sync server.
//
// It wires the chi router: pull and push endpoints behind bearer-token
// authentication, plus version and health endpoints. Trace ids, access
// logging, gzip and the request timeout are applied as middleware before
// requests reach the service layer. Every error response has the shape
// {"status": "<message>"}.
package http
