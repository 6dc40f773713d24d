package grpc

import (
	"context"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// WaitForHealth polls the health service until it reports SERVING or the
// context ends. Polling starts at 200ms and backs off to one second.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logf func(string, ...any)) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	target := service
	if target == "" {
		target = "server"
	}

	healthClient := grpc_health_v1.NewHealthClient(conn)
	backoff := 200 * time.Millisecond
	for {
		callCtx, cancel := context.WithTimeout(ctx, time.Second)
		response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		if err == nil && response.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING {
			if logf != nil {
				logf("%s health check is SERVING", target)
			}
			return nil
		}
		if logf != nil {
			if err != nil {
				logf("waiting for %s health: %v", target, err)
			} else {
				logf("waiting for %s health: status %s", target, response.GetStatus().String())
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s health: %w", target, ctx.Err())
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > time.Second {
			backoff = time.Second
		}
	}
}
