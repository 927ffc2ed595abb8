package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/kasir-pos/internal/httpx"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func healthHandler(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			code := http.StatusServiceUnavailable
			c.JSON(code, httpx.Envelope{Code: code, Status: http.StatusText(code), Error: err.Error()})
			return
		}
		httpx.OK(c, gin.H{"database": "ok"})
	}
}

func newHealthServer() (*grpc.Server, *health.Server) {
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	return gs, hs
}

// watchHealth reports SERVING while the database answers pings.
func watchHealth(ctx context.Context, db pinger, hs *health.Server) {
	t := time.NewTicker(15 * time.Second)
	defer t.Stop()
	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		status := healthpb.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := db.Ping(pingCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		cancel()
		if status != last {
			log.Printf("[grpc] health %s", status)
			last = status
		}
		hs.SetServingStatus("", status)

		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-t.C:
		}
	}
}
