package handler

import "errors"

// errNoHandlersAreCreated means the config enables neither the HTTP nor the
// gRPC transport.
var errNoHandlersAreCreated = errors.New("no sync transport is configured")
