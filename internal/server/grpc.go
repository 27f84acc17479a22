package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/MKhiriev/go-delta-sync/internal/config"
	myGRPC "github.com/MKhiriev/go-delta-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
)

type grpcServer struct {
	addr string

	server          *grpc.Server
	gRPCNetListener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer(handler.ServerOptions()...)
	handler.Register(server)

	return &grpcServer{
		addr:   cfg.GRPCAddress,
		server: server,
		logger: logger,
	}
}

func (g *grpcServer) listen() error {
	if g.gRPCNetListener != nil {
		return nil
	}
	lis, err := net.Listen("tcp", g.addr)
	if err != nil {
		return fmt.Errorf("%w: grpc %s: %w", errListening, g.addr, err)
	}
	g.gRPCNetListener = lis
	return nil
}

func (g *grpcServer) address() string {
	if g.gRPCNetListener == nil {
		return g.addr
	}
	return g.gRPCNetListener.Addr().String()
}

func (g *grpcServer) serve() error {
	// ErrServerStopped means shutdown won the race against Serve
	if err := g.server.Serve(g.gRPCNetListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("gRPC server Serve: %w", err)
	}
	return nil
}

// shutdown waits for in-flight calls until ctx expires, then stops hard.
func (g *grpcServer) shutdown(ctx context.Context) {
	g.logger.Info().Msg("gRPC server Shutdown")

	done := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		g.server.Stop()
		<-done
	}
}
