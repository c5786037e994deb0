// Package grpc runs the gRPC side channel of the server. It only carries the
// standard health service, which reports SERVING once the database is ready
// and NOT_SERVING while the process shuts down.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/csemanager/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// APIService is the health service name reported for the REST API.
const APIService = "csemanager.API"

type GRPCServer struct {
	address string
	logger  logging.Logger
	health  *health.Server
}

func NewGRPCServer(a string, l logging.Logger) *GRPCServer {
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(APIService, healthpb.HealthCheckResponse_NOT_SERVING)

	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		health:  h,
	}
}

// SetServing flips the overall and API status.
func (s *GRPCServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(APIService, st)
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		// Shutdown pins every status to NOT_SERVING and ignores later updates.
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
