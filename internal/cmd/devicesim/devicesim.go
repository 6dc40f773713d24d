// Package devicesim parses device daemon flags and starts the simulated
// headset service.
package devicesim

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/vergence/internal/platform/cmd"
)

// Config holds device daemon command configuration.
type Config struct {
	Port    int    `env:"VERGENCE_DEVICESIM_PORT"    envDefault:"7071"`
	DBPath  string `env:"VERGENCE_DEVICESIM_DB"`
	Profile string `env:"VERGENCE_DEVICESIM_PROFILE" envDefault:"canted"`

	Absent    bool
	Refresh   float64
	Floor     float64
	NativeFov bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The device daemon port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Telemetry database path (empty disables persistence)")
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, "Headset profile (canted or parallel)")
	fs.BoolVar(&cfg.Absent, "absent", false, "Start with the service running but no headset present")
	fs.Float64Var(&cfg.Refresh, "refresh", 0, "Refresh rate override in Hz (zero keeps the profile value)")
	fs.Float64Var(&cfg.Floor, "floor", 0, "Floor height override in meters (zero keeps the profile value)")
	fs.BoolVar(&cfg.NativeFov, "native-fov", false, "Report a preference for the native canted FOV")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the device daemon.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDeviceSim, func(context.Context) error {
		return serve(ctx, cfg)
	})
}
