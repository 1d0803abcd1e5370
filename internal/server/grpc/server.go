// Package grpc runs the gRPC side of the server: the standard health service,
// kept in sync with database reachability for load balancers and orchestrators.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported next to the overall ("") health status.
const ServiceName = "budgetkeeper.Backend"

const defaultProbeInterval = 10 * time.Second

// ReadyProbe reports whether a dependency is reachable. *sql.DB satisfies it.
type ReadyProbe interface {
	PingContext(ctx context.Context) error
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	probe    ReadyProbe
	interval time.Duration
	health   *health.Server
}

// NewGRPCServer creates a health server. A nil probe means always serving.
func NewGRPCServer(a string, l logging.Logger, probe ReadyProbe) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		probe:    probe,
		interval: defaultProbeInterval,
		health:   health.NewServer(),
	}
}

// newServer builds the grpc.Server with the health service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoveryInterceptor, s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	s.check(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

// watch re-probes on every tick until ctx is done.
func (s *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check updates both the overall and the named service status from one probe.
func (s *GRPCServer) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.probe != nil {
		pingCtx, cancel := context.WithTimeout(ctx, s.interval)
		err := s.probe.PingContext(pingCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn(ctx, "readiness probe failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
