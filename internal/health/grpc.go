package health

import (
	"context"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCServer answers the standard gRPC health checking protocol for
// load balancers that probe over gRPC.
type GRPCServer struct {
	serviceName string
	port        string
	server      *grpc.Server
	health      *grpchealth.Server
	listener    net.Listener
	logger      *logrus.Logger
}

// NewGRPCServer creates a gRPC health server reporting NOT_SERVING until
// SetServing is called.
func NewGRPCServer(serviceName, port string, logger *logrus.Logger) *GRPCServer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := grpchealth.NewServer()
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, h)

	g := &GRPCServer{
		serviceName: serviceName,
		port:        port,
		server:      srv,
		health:      h,
		logger:      logger,
	}
	g.SetServing(false)
	return g
}

// SetServing updates the overall and per-service status.
func (g *GRPCServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(g.serviceName, status)
}

// Start listens on the configured port and serves until ctx is cancelled.
func (g *GRPCServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", ":"+g.port)
	if err != nil {
		return fmt.Errorf("failed to listen for grpc health: %w", err)
	}
	g.listener = lis

	go func() {
		g.logger.WithField("addr", lis.Addr().String()).Info("gRPC health server starting")
		if err := g.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
			g.logger.WithError(err).Error("gRPC health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		g.health.Shutdown()
		g.server.GracefulStop()
	}()
	return nil
}

// Addr returns the bound address once started.
func (g *GRPCServer) Addr() string {
	if g.listener == nil {
		return ""
	}
	return g.listener.Addr().String()
}
