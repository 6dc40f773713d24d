package devicesim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/vergence/internal/device"
	"github.com/louisbranch/vergence/internal/device/devicerpc"
	sim "github.com/louisbranch/vergence/internal/device/devicesim"
	"github.com/louisbranch/vergence/internal/storage/sqlite"
	"github.com/louisbranch/vergence/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Server hosts the simulated headset device service over gRPC.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *sqlite.Store
	device     *sim.Device
}

// New creates a configured device daemon listening on the provided port.
func New(cfg Config) (*Server, error) {
	profile, err := profileByName(cfg.Profile)
	if err != nil {
		return nil, err
	}
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", cfg.Port, err)
	}
	store, err := openTelemetryStore(cfg.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	hmd, err := sim.New(profile)
	if err != nil {
		_ = listener.Close()
		closeStore(store)
		return nil, err
	}
	if cfg.Absent {
		hmd.SetPresent(false)
	}
	if cfg.Refresh > 0 {
		hmd.SetRefreshRate(cfg.Refresh)
	}
	if cfg.Floor > 0 {
		hmd.SetFloatConfig(device.ConfigEyeHeight, cfg.Floor)
	}
	if cfg.NativeFov {
		hmd.SetIntConfig(device.ConfigUseNativeFov, 1)
	}

	var emitter *telemetry.Emitter
	if store != nil {
		emitter = telemetry.NewEmitter(store)
	}
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(devicerpc.TelemetryInterceptor(emitter)),
	)
	devicerpc.NewServer(hmd).Register(grpcServer)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(devicerpc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		device:     hmd,
	}, nil
}

// Addr returns the listener address for the device daemon.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Device returns the simulated headset so callers can flip its state.
func (s *Server) Device() *sim.Device {
	if s == nil {
		return nil
	}
	return s.device
}

// Serve starts the device daemon and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer closeStore(s.store)

	log.Printf("device daemon listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		err := <-serveErr
		return handleErr(err)
	case err := <-serveErr:
		return handleErr(err)
	}
}

// serve creates and serves a device daemon until the context ends.
func serve(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

func profileByName(name string) (sim.Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "canted":
		return sim.ProfileCanted(), nil
	case "parallel":
		return sim.ProfileParallel(), nil
	default:
		return sim.Profile{}, fmt.Errorf("unknown headset profile %q", name)
	}
}

func openTelemetryStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry store: %w", err)
	}
	return store, nil
}

func closeStore(store *sqlite.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.Printf("close telemetry store: %v", err)
	}
}
