// Package runtime parses runtime host flags and starts the admin daemon.
package runtime

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/louisbranch/vergence/internal/platform/cmd"
)

// Config holds runtime command configuration.
type Config struct {
	Port        int           `env:"VERGENCE_RUNTIME_PORT" envDefault:"7070"`
	DeviceAddr  string        `env:"VERGENCE_DEVICE_ADDR"  envDefault:"localhost:7071"`
	DBPath      string        `env:"VERGENCE_RUNTIME_DB"`
	DialTimeout time.Duration `env:"VERGENCE_DIAL_TIMEOUT"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The runtime admin port")
	fs.StringVar(&cfg.DeviceAddr, "device-addr", cfg.DeviceAddr, "The device daemon address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Telemetry database path (empty disables persistence)")
	fs.DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "Device dial timeout (zero uses the shared default)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the runtime host daemon.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRuntime, func(context.Context) error {
		server, err := NewServer(ctx, cfg)
		if err != nil {
			return err
		}
		defer server.Close()
		return server.ListenAndServe(ctx)
	})
}
