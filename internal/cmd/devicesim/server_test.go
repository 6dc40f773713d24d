package devicesim

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/louisbranch/vergence/internal/device"
	"github.com/louisbranch/vergence/internal/device/devicerpc"
	"github.com/louisbranch/vergence/internal/storage/sqlite"
	"github.com/louisbranch/vergence/internal/telemetry/events"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// startServer serves cfg on an ephemeral port and returns the daemon with a
// stop func that asserts a clean shutdown.
func startServer(t *testing.T, cfg Config) (*Server, string, func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	server, err := New(cfg)
	if err != nil {
		cancel()
		t.Fatalf("new server: %v", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx)
	}()

	stop := func() {
		cancel()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Fatalf("serve returned error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop in time")
		}
	}
	return server, normalizeAddress(t, server.Addr()), stop
}

func dialDevice(t *testing.T, addr string) *devicerpc.Client {
	t.Helper()

	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.WaitForReady(true)),
	)
	if err != nil {
		t.Fatalf("dial server: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return devicerpc.NewClient(conn)
}

func TestServeStopsOnContext(t *testing.T) {
	_, addr, stop := startServer(t, Config{Port: 0, Profile: "canted"})
	client := dialDevice(t, addr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sess, err := client.CreateSession(ctx)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	status, err := sess.HmdStatus(ctx)
	if err != nil {
		t.Fatalf("hmd status: %v", err)
	}
	if !status.Available() {
		t.Fatalf("expected available headset, got %+v", status)
	}
	if err := sess.Close(ctx); err != nil {
		t.Fatalf("close session: %v", err)
	}

	stop()
}

func TestHealthCheckReportsServing(t *testing.T) {
	_, addr, stop := startServer(t, Config{Port: 0, Profile: "parallel"})
	defer stop()

	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.WaitForReady(true)),
	)
	if err != nil {
		t.Fatalf("dial server: %v", err)
	}
	defer conn.Close()

	healthClient := grpc_health_v1.NewHealthClient(conn)
	for _, service := range []string{"", devicerpc.ServiceName} {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		response, err := healthClient.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		if err != nil {
			t.Fatalf("health check %q: %v", service, err)
		}
		if response.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
			t.Fatalf("health check %q = %v, want SERVING", service, response.GetStatus())
		}
	}
}

func TestNewAppliesOverrides(t *testing.T) {
	_, addr, stop := startServer(t, Config{
		Port:      0,
		Profile:   "parallel",
		Refresh:   120,
		Floor:     1.55,
		NativeFov: true,
	})
	defer stop()
	client := dialDevice(t, addr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sess, err := client.CreateSession(ctx)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer func() { _ = sess.Close(ctx) }()

	display, err := sess.DisplayInfo(ctx, device.EyeLeft)
	if err != nil {
		t.Fatalf("display info: %v", err)
	}
	if display.RefreshRate != 120 {
		t.Fatalf("expected refresh override 120, got %v", display.RefreshRate)
	}
	floor, err := sess.FloatConfig(ctx, device.ConfigEyeHeight, 0)
	if err != nil {
		t.Fatalf("float config: %v", err)
	}
	if floor != 1.55 {
		t.Fatalf("expected floor override 1.55, got %v", floor)
	}
	nativeFov, err := sess.IntConfig(ctx, device.ConfigUseNativeFov, 0)
	if err != nil {
		t.Fatalf("int config: %v", err)
	}
	if nativeFov != 1 {
		t.Fatalf("expected native fov flag 1, got %d", nativeFov)
	}
}

func TestNewAbsentHeadset(t *testing.T) {
	_, addr, stop := startServer(t, Config{Port: 0, Profile: "canted", Absent: true})
	defer stop()
	client := dialDevice(t, addr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sess, err := client.CreateSession(ctx)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer func() { _ = sess.Close(ctx) }()

	status, err := sess.HmdStatus(ctx)
	if err != nil {
		t.Fatalf("hmd status: %v", err)
	}
	if !status.ServiceReady {
		t.Fatal("expected service to stay ready")
	}
	if status.HmdPresent {
		t.Fatal("expected no headset present")
	}
}

func TestNewRejectsUnknownProfile(t *testing.T) {
	if _, err := New(Config{Port: 0, Profile: "frobnicate"}); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestNewPortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	_, port, err := net.SplitHostPort(listener.Addr().String())
	if err != nil {
		t.Fatalf("split address %q: %v", listener.Addr().String(), err)
	}
	portNumber, err := strconv.Atoi(port)
	if err != nil {
		t.Fatalf("parse port %q: %v", port, err)
	}

	if _, err := New(Config{Port: portNumber, Profile: "canted"}); err == nil {
		t.Fatal("expected error when port is already in use")
	}
}

func TestServeWritesTelemetry(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "devicesim.db")
	_, addr, stop := startServer(t, Config{Port: 0, Profile: "canted", DBPath: dbPath})
	client := dialDevice(t, addr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sess, err := client.CreateSession(ctx)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := sess.HmdInfo(ctx); err != nil {
		t.Fatalf("hmd info: %v", err)
	}
	if err := sess.Close(ctx); err != nil {
		t.Fatalf("close session: %v", err)
	}

	stop()

	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()
	recorded, err := store.ListTelemetryEvents(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(recorded) < 3 {
		t.Fatalf("expected at least 3 events, got %d", len(recorded))
	}
	for _, evt := range recorded {
		if evt.EventName != events.DeviceRPC {
			t.Fatalf("expected %s events, got %q", events.DeviceRPC, evt.EventName)
		}
	}
}

func normalizeAddress(t *testing.T, addr string) string {
	t.Helper()

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split address %q: %v", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
