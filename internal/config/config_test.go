package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.HTTP.Addr == "" {
		t.Error("http.addr default missing")
	}
	if cfg.Broadcast.Pacing != 2*time.Second {
		t.Errorf("broadcast.pacing = %v, want 2s", cfg.Broadcast.Pacing)
	}
	if cfg.Broadcast.Topic != "wa.broadcast" {
		t.Errorf("broadcast.topic = %q, want wa.broadcast", cfg.Broadcast.Topic)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		t.Error("kafka.brokers default missing")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("http:\n  addr: \":9999\"\nbroadcast:\n  pacing: 500ms\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("http.addr = %q, want file override :9999", cfg.HTTP.Addr)
	}
	if cfg.Broadcast.Pacing != 500*time.Millisecond {
		t.Errorf("broadcast.pacing = %v, want 500ms", cfg.Broadcast.Pacing)
	}
	// untouched keys keep their defaults
	if cfg.Broadcast.Topic != "wa.broadcast" {
		t.Errorf("broadcast.topic = %q, want default retained", cfg.Broadcast.Topic)
	}
}
