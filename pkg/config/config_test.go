package config

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalYAML = `environment: test
pipeline:
  coins:
    - bitcoin
    - ethereum
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Pipeline.MAWindow != 7 || cfg.Pipeline.MomentumWindow != 14 {
		t.Fatalf("unexpected window defaults: %d/%d", cfg.Pipeline.MAWindow, cfg.Pipeline.MomentumWindow)
	}
	if cfg.Pipeline.DipThreshold != 0.05 || cfg.Pipeline.RallyThreshold != 0.05 {
		t.Fatalf("unexpected threshold defaults")
	}
	if cfg.Storage.Backend != "fs" || cfg.Storage.SilverKey != "silver/market_history.parquet" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Notify.Channel != "log" {
		t.Fatalf("expected log notify channel, got %s", cfg.Notify.Channel)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML+`
storage:
  backend: badger
  root: /tmp/lake
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != "badger" || cfg.Storage.Root != "/tmp/lake" {
		t.Fatalf("overrides not applied: %+v", cfg.Storage)
	}
}

func TestLoadRejectsMissingCoins(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: test\n")); err == nil {
		t.Fatalf("expected validation error without coins")
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	if _, err := Load(writeConfig(t, minimalYAML+"storage:\n  backend: s3\n")); err == nil {
		t.Fatalf("expected validation error for unknown backend")
	}
}

func TestLoadRejectsWebhookWithoutURL(t *testing.T) {
	if _, err := Load(writeConfig(t, minimalYAML+"notify:\n  channel: webhook\n")); err == nil {
		t.Fatalf("expected validation error for webhook without url")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("COINS", "solana,cardano")
	t.Setenv("COINGECKO_API_KEY", "demo-key")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Pipeline.Coins) != 2 || cfg.Pipeline.Coins[0] != "solana" {
		t.Fatalf("COINS override not applied: %v", cfg.Pipeline.Coins)
	}
	if cfg.CoinGecko.APIKey != "demo-key" {
		t.Fatalf("API key override not applied")
	}
}
