package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d", cfg.Server.Port)
	}
	if cfg.Scraper.TimeoutSeconds != 15 {
		t.Errorf("scraper.timeout_seconds = %d", cfg.Scraper.TimeoutSeconds)
	}
	if !cfg.Headless.Enabled || cfg.Headless.MaxParallel != 2 || cfg.Headless.SettleDelayMs != 2000 {
		t.Errorf("headless defaults = %+v", cfg.Headless)
	}
	if cfg.AI.Enabled {
		t.Error("ai.enabled must default to false")
	}
	if cfg.AI.Model != "gpt-4o-mini" || cfg.AI.MaxTokens != 500 {
		t.Errorf("ai defaults = %+v", cfg.AI)
	}
	if cfg.DB.Provider != "memory" {
		t.Errorf("db.provider = %q", cfg.DB.Provider)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
server:
  port: 9090
db:
  provider: postgres
  dsn: postgres://localhost:5432/linkdex
headless:
  enabled: false
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want file override", cfg.Server.Port)
	}
	if cfg.DB.Provider != "postgres" || cfg.DB.DSN == "" {
		t.Errorf("db = %+v", cfg.DB)
	}
	if cfg.Headless.Enabled {
		t.Error("headless.enabled = true, want file override")
	}
	if cfg.Scraper.TimeoutSeconds != 15 {
		t.Errorf("scraper default lost: %d", cfg.Scraper.TimeoutSeconds)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LINKDEX_SERVER_PORT", "7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want env override", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Server: ServerConfig{Port: 8080},
			DB:     DBConfig{Provider: "memory"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid memory config", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.DB.Provider = "sqlite" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.DB.Provider = "postgres" }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.DB.Provider = "postgres"
			c.DB.DSN = "postgres://localhost/db"
		}},
		{name: "auth without key", mutate: func(c *Config) { c.Auth.Enabled = true }, wantErr: true},
		{name: "ai without key", mutate: func(c *Config) { c.AI.Enabled = true }, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
