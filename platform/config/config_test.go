package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":4101" || cfg.SocketAddr != ":8000" {
		t.Fatalf("unexpected addrs %s %s", cfg.HTTPAddr, cfg.SocketAddr)
	}
	if cfg.StartingBalance != 10000 || cfg.StartBonus != 2000 || cfg.DiceSides != 24 {
		t.Fatalf("unexpected rules %+v", cfg)
	}
	if cfg.StoreBackend != "sqlite" || cfg.Joining() || cfg.UsePostgres() {
		t.Fatalf("unexpected mode %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("ALLOWED_ORIGINS", "http://a,http://b")
	t.Setenv("JOIN_URL", "ws://host:8000/ws")
	t.Setenv("DICE_SIDES", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreBackend != "redis" || cfg.DiceSides != 6 || !cfg.Joining() {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string][2]string{
		"bad int":     {"STARTING_BALANCE", "lots"},
		"bad backend": {"STORE_BACKEND", "floppy"},
		"bad dice":    {"DICE_SIDES", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	t.Setenv("STARTING_BALANCE", "lots")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
