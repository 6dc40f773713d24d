package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	devicesimcmd "github.com/louisbranch/vergence/internal/cmd/devicesim"
	"github.com/louisbranch/vergence/internal/status"
)

// startDeviceDaemon runs a simulated device daemon on an ephemeral port.
func startDeviceDaemon(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	daemon, err := devicesimcmd.New(devicesimcmd.Config{Port: 0, Profile: "canted"})
	if err != nil {
		cancel()
		t.Fatalf("new device daemon: %v", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- daemon.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Errorf("device daemon error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("device daemon did not stop in time")
		}
	})
	return normalizeAddress(t, daemon.Addr())
}

func TestServerServesAdminSurface(t *testing.T) {
	deviceAddr := startDeviceDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	server, err := NewServer(ctx, Config{Port: 0, DeviceAddr: deviceAddr})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer server.Close()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe(ctx)
	}()

	baseURL := fmt.Sprintf("http://%s", normalizeAddress(t, server.Addr()))
	waitForHTTP(t, baseURL+"/healthz")

	response, err := http.Get(baseURL + "/v1/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	snap := decodeResponse[status.Snapshot](t, response)
	if snap.RefreshRate != 90 {
		t.Fatalf("expected refresh rate 90, got %v", snap.RefreshRate)
	}
	if !snap.ParallelProjection {
		t.Fatal("expected parallel projection for the canted profile")
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("listen and serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop in time")
	}
}

func TestNewServerRequiresDeviceAddr(t *testing.T) {
	if _, err := NewServer(context.Background(), Config{Port: 0, DeviceAddr: "  "}); err == nil {
		t.Fatal("expected error for missing device address")
	}
}

func TestNewServerDeviceUnreachable(t *testing.T) {
	cfg := Config{
		Port:        0,
		DeviceAddr:  "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	}
	if _, err := NewServer(context.Background(), cfg); err == nil {
		t.Fatal("expected error when the device daemon is unreachable")
	}
}

func decodeResponse[T any](t *testing.T, response *http.Response) T {
	t.Helper()

	var payload T
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func waitForHTTP(t *testing.T, url string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		response, err := http.Get(url)
		if err == nil {
			_ = response.Body.Close()
			if response.StatusCode == http.StatusOK {
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("server not reachable at %s: %v", url, err)
		}
		time.Sleep(20 * time.Millisecond)
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
