package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("COSMETICS_APP_ENV", "dev")
	t.Setenv("COSMETICS_ACCOUNT_AUTH_TOKEN", "svc-token")
	t.Setenv("COSMETICS_STEAM_PUBLISHER_KEY", "pubkey")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Port != "2219" {
		t.Fatalf("unexpected default port %q", cfg.App.Port)
	}
	if cfg.Accounts.BaseURL != "https://account.polus.gg" {
		t.Fatalf("unexpected accounts base url %q", cfg.Accounts.BaseURL)
	}
	if cfg.Steam.AppID != 1653240 {
		t.Fatalf("unexpected app id %d", cfg.Steam.AppID)
	}
	if !cfg.Steam.Sandbox {
		t.Fatalf("sandbox should default on")
	}
	if cfg.RateLimit.PurchaseWindow != time.Minute {
		t.Fatalf("unexpected rate limit window %v", cfg.RateLimit.PurchaseWindow)
	}
	if !cfg.App.IsDev() || cfg.App.IsProd() {
		t.Fatalf("env helpers disagree with COSMETICS_APP_ENV=dev")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COSMETICS_APP_PORT", "8080")
	t.Setenv("COSMETICS_STEAM_SANDBOX", "false")
	t.Setenv("COSMETICS_USE_SQLITE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("port override ignored: %q", cfg.App.Port)
	}
	if cfg.Steam.Sandbox {
		t.Fatalf("sandbox override ignored")
	}
	if !cfg.FeatureFlags.UseSQLite {
		t.Fatalf("sqlite flag override ignored")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("COSMETICS_APP_ENV", "dev")
	t.Setenv("COSMETICS_ACCOUNT_AUTH_TOKEN", "")
	t.Setenv("COSMETICS_STEAM_PUBLISHER_KEY", "pubkey")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when service token missing")
	}
}
