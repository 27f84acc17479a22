// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-delta-sync/internal/app"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/utils"
)

const (
	traceIDKey       = "x-trace-id"
	authorizationKey = "authorization"
)

// withLogging tags the call logger with a trace id, echoes the id in the
// response header and writes one access line per call.
func (h *Handler) withLogging(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	traceID := firstMetadata(ctx, traceIDKey)
	if traceID == "" {
		traceID = utils.NewID()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(traceIDKey, traceID))

	l := h.logger.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID)
	})
	ctx = l.WithContext(ctx)

	resp, err := handler(ctx, req)

	code := status.Code(err)
	event := l.Info()
	switch code {
	case codes.OK:
	case codes.Internal, codes.Unknown, codes.Unavailable:
		event = l.Error()
	default:
		event = l.Warn()
	}
	event.
		Str("method", info.FullMethod).
		Str("code", code.String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

// withRecovery turns a panic in a handler into an Internal status.
func (h *Handler) withRecovery(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error().
				Interface("panic", r).
				Str("method", info.FullMethod).
				Msg("recovered from panic")
			err = status.Error(codes.Internal, app.MsgInternalServerError)
		}
	}()

	return handler(ctx, req)
}

func (h *Handler) withTimeout(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if h.requestTimeout <= 0 {
		return handler(ctx, req)
	}

	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()
	return handler(ctx, req)
}

// auth resolves the principal of sync calls from the bearer token in the
// "authorization" metadata. Other services, such as health, pass through.
func (h *Handler) auth(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !strings.HasPrefix(info.FullMethod, "/"+ServiceName+"/") {
		return handler(ctx, req)
	}

	log := logger.FromContext(ctx)

	tokenString, err := utils.ParseBearerToken(firstMetadata(ctx, authorizationKey))
	if err != nil {
		log.Err(err).Str("method", info.FullMethod).Send()
		return nil, status.Error(codes.Unauthenticated, app.MsgMissingAuthorization)
	}

	token, err := h.services.AuthService.ParseToken(ctx, tokenString)
	if err != nil {
		log.Err(err).Msg("error occurred during parsing token")
		return nil, status.Error(codes.Unauthenticated, app.MsgTokenIsExpiredOrInvalid)
	}

	l := log.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("owner_id", token.OwnerID)
	})
	ctx = l.WithContext(utils.WithOwnerID(ctx, token.OwnerID))

	return handler(ctx, req)
}

func firstMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
