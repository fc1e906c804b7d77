package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Fatalf("expected default ping period 54s, got %s", cfg.PingPeriod)
	}
	if cfg.SpeakRequestLimit != 3 || cfg.SpeakRequestInterval != 30*time.Second {
		t.Fatalf("unexpected speak request defaults %d/%s", cfg.SpeakRequestLimit, cfg.SpeakRequestInterval)
	}
	if cfg.SlowConsumerPolicy != "drop" || cfg.SendBuffer != 32 || cfg.InboundQueue != 256 {
		t.Fatalf("unexpected transport defaults %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	yaml := "mode: debug\nport: 9000\nping_period: 10s\nslow_consumer_policy: kick\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != "debug" || cfg.Port != 9000 || cfg.PingPeriod != 10*time.Second || cfg.SlowConsumerPolicy != "kick" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.ReadLimit != 32768 {
		t.Fatalf("defaults must fill missing keys, got read_limit %d", cfg.ReadLimit)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AGORA_PORT", "7070")
	t.Setenv("AGORA_SLOW_CONSUMER_POLICY", "kick")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 7070 || cfg.SlowConsumerPolicy != "kick" {
		t.Fatalf("env override not applied: %+v", cfg)
	}
}
