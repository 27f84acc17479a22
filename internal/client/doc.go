// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements syncctl, the command-line sync client.
//
// It wires the client configuration, a [adapter.SyncAdapter] and the pull
// poller into cobra commands: pull, push, watch, health, token and version.
// The last pulled watermark is kept in the configured state file, so
// consecutive pulls only return what changed in between.
package client
