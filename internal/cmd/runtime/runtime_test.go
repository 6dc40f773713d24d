package runtime

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("runtime", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 7070 {
		t.Fatalf("expected default port 7070, got %d", cfg.Port)
	}
	if cfg.DeviceAddr != "localhost:7071" {
		t.Fatalf("expected default device addr, got %q", cfg.DeviceAddr)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected empty db path, got %q", cfg.DBPath)
	}
	if cfg.DialTimeout != 0 {
		t.Fatalf("expected zero dial timeout, got %v", cfg.DialTimeout)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("runtime", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-port", "9001",
		"-device-addr", "127.0.0.1:9999",
		"-db", "/tmp/runtime.db",
		"-dial-timeout", "750ms",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.Port)
	}
	if cfg.DeviceAddr != "127.0.0.1:9999" {
		t.Fatalf("expected device addr override, got %q", cfg.DeviceAddr)
	}
	if cfg.DBPath != "/tmp/runtime.db" {
		t.Fatalf("expected db path override, got %q", cfg.DBPath)
	}
	if cfg.DialTimeout != 750*time.Millisecond {
		t.Fatalf("expected dial timeout 750ms, got %v", cfg.DialTimeout)
	}
}
