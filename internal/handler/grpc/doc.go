// Package grpc implements the gRPC transport of the sync server.
//
// The deltasync.v1.SyncService exposes Pull and Push with the same
// semantics as the HTTP endpoints. Messages are JSON encoded (content
// subtype "json"), so no generated protobuf code is involved. The standard
// grpc.health.v1 service is registered alongside.
package grpc
