// Package status parses status CLI flags and prints a headset diagnostic
// snapshot.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/vergence/internal/device/devicerpc"
	entrypoint "github.com/louisbranch/vergence/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/vergence/internal/platform/grpc"
	"github.com/louisbranch/vergence/internal/platform/timeouts"
	"github.com/louisbranch/vergence/internal/status"
)

// Config holds status command configuration.
type Config struct {
	DeviceAddr string        `env:"VERGENCE_DEVICE_ADDR"    envDefault:"localhost:7071"`
	Timeout    time.Duration `env:"VERGENCE_STATUS_TIMEOUT" envDefault:"10s"`
	JSON       bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DeviceAddr, "addr", cfg.DeviceAddr, "The device daemon address")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Overall collection timeout")
	fs.BoolVar(&cfg.JSON, "json", false, "Print the snapshot as JSON")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run collects one diagnostic snapshot from the device daemon and writes it
// to out.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	deviceAddr := strings.TrimSpace(cfg.DeviceAddr)
	if deviceAddr == "" {
		return errors.New("device address is required")
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceStatus, func(context.Context) error {
		runCtx := ctx
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		logger := log.New(errOut, "", 0)
		conn, err := platformgrpc.DialWithHealth(runCtx, nil, deviceAddr, devicerpc.ServiceName, timeouts.GRPCDial, logger.Printf, platformgrpc.DefaultClientDialOptions()...)
		if err != nil {
			return fmt.Errorf("dial device %s: %w", deviceAddr, err)
		}
		defer conn.Close()

		snap, err := status.Collect(runCtx, devicerpc.NewClient(conn))
		if err != nil {
			return err
		}
		if cfg.JSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(snap)
		}
		return writeText(out, snap)
	})
}

// writeText prints the snapshot as aligned label/value lines.
func writeText(w io.Writer, snap status.Snapshot) error {
	onOff := func(enabled bool) string {
		if enabled {
			return "on"
		}
		return "off"
	}
	projection := "native"
	if snap.ParallelProjection {
		projection = "parallel"
	}

	lines := []struct {
		label string
		value string
	}{
		{"Headset", strings.TrimSpace(snap.Manufacturer + " " + snap.ProductName)},
		{"Serial", snap.SerialNumber},
		{"Firmware", snap.Firmware},
		{"Refresh rate", fmt.Sprintf("%.1f Hz", snap.RefreshRate)},
		{"Field of view", fmt.Sprintf("%.1f deg (canting %.1f deg)", snap.FovDegrees, snap.CantingDegrees)},
		{"Projection", projection},
		{"Recommended size", fmt.Sprintf("%dx%d", snap.RecommendedWidth, snap.RecommendedHeight)},
		{"FOV level", fmt.Sprintf("%d", snap.FovLevel)},
		{"Floor height", fmt.Sprintf("%.2f m", snap.FloorHeight)},
		{"Smart smoothing", onOff(snap.SmartSmoothing)},
		{"Lighthouse tracking", onOff(snap.LighthouseTracking)},
		{"Client FPS", fmt.Sprintf("%.1f", snap.ClientFPS)},
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", line.label+":", line.value); err != nil {
			return err
		}
	}
	return nil
}
