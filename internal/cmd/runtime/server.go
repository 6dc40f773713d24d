package runtime

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/vergence/internal/device/devicerpc"
	platformgrpc "github.com/louisbranch/vergence/internal/platform/grpc"
	"github.com/louisbranch/vergence/internal/platform/timeouts"
	"github.com/louisbranch/vergence/internal/runtime"
	"github.com/louisbranch/vergence/internal/storage/sqlite"
	"github.com/louisbranch/vergence/internal/telemetry"
	"google.golang.org/grpc"
)

// Server hosts the runtime admin surface and owns the device connection.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	conn       *grpc.ClientConn
	store      *sqlite.Store
}

// NewServer dials the device daemon and builds a configured runtime host.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	deviceAddr := strings.TrimSpace(cfg.DeviceAddr)
	if deviceAddr == "" {
		return nil, errors.New("device address is required")
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = timeouts.GRPCDial
	}

	logf := func(format string, args ...any) {
		log.Printf("runtime device %s", fmt.Sprintf(format, args...))
	}
	conn, err := platformgrpc.DialWithHealth(ctx, nil, deviceAddr, devicerpc.ServiceName, dialTimeout, logf, platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) && dialErr.Stage == platformgrpc.DialStageHealth {
			return nil, fmt.Errorf("device health check failed for %s: %w", deviceAddr, dialErr.Err)
		}
		return nil, fmt.Errorf("dial device %s: %w", deviceAddr, err)
	}

	store, err := openTelemetryStore(cfg.DBPath)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	var emitter *telemetry.Emitter
	if store != nil {
		emitter = telemetry.NewEmitter(store)
	}

	svc := devicerpc.NewClient(conn)
	host := runtime.New(svc, runtime.Options{
		Extensions: []string{runtime.ExtensionHandTracking},
		Emitter:    emitter,
	})

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		_ = conn.Close()
		closeStore(store)
		return nil, fmt.Errorf("listen on port %d: %w", cfg.Port, err)
	}
	httpServer := &http.Server{
		Handler:           newHandler(host, svc, store, emitter),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		listener:   listener,
		httpServer: httpServer,
		conn:       conn,
		store:      store,
	}, nil
}

// Addr returns the listener address for the admin surface.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// ListenAndServe runs the admin HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("runtime server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log.Printf("runtime listening on %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the device connection and storage held by the server.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			log.Printf("close device connection: %v", err)
		}
	}
	closeStore(s.store)
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
