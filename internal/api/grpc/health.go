// Package grpc serves the standard gRPC health service so orchestrators can
// query the backend without going through the HTTP API.
package grpc

import (
	"context"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"sailing-club-backend/internal/api/grpc/interceptor"
	"sailing-club-backend/internal/logger"
)

// ServiceName is the service reported alongside the overall ("") status.
const ServiceName = "sailing.club.Backend"

const DefaultCheckInterval = 15 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer reports SERVING while the store answers pings and
// NOT_SERVING otherwise.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	store    Pinger
	interval time.Duration

	stopOnce sync.Once
	done     chan struct{}
}

func NewHealthServer(store Pinger, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	s := grpc.NewServer(grpc.UnaryInterceptor(interceptor.Logging()))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	return &HealthServer{
		server:   s,
		health:   hs,
		store:    store,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Refresh pings the store once and publishes the result.
func (h *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.store.Ping(ctx); err != nil {
		logger.WarnContext(ctx, "Health check failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Serve checks the store now and on every interval tick. It blocks serving
// lis until Stop is called.
func (h *HealthServer) Serve(lis net.Listener) error {
	h.Refresh(context.Background())
	go h.watch()
	logger.Info("gRPC health server listening", "address", lis.Addr().String())
	return h.server.Serve(lis)
}

func (h *HealthServer) watch() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.Refresh(context.Background())
		}
	}
}

// Stop marks every service NOT_SERVING and drains in-flight calls.
func (h *HealthServer) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.health.Shutdown()
		h.server.GracefulStop()
	})
}
