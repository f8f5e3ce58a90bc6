package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/potledger/pokerbot/internal/config"
)

func TestLoadConfig_DefaultsWithEnvToken(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123:abc")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}

	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, "123:abc")
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "info")
	}
	if cfg.Database.Path == "" {
		t.Error("Database.Path default is empty")
	}
	if cfg.Messages.NotRunning == "" {
		t.Error("Messages.NotRunning default is empty")
	}

	task, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok {
		t.Fatal("Scheduler.Tasks is missing the sql_maintenance default")
	}
	if !task.Enabled || task.Schedule == "" {
		t.Errorf("sql_maintenance task = %+v, want enabled with a schedule", task)
	}
}

func TestLoadConfig_MissingTokenFailsValidation(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "")

	if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() without a token expected a validation error, got nil")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(
		"telegram:\n" +
			"  token: \"456:def\"\n" +
			"logger:\n" +
			"  level: debug\n" +
			"  json: false\n" +
			"database:\n" +
			"  path: custom.db\n" +
			"messages:\n" +
			"  not_running: \"Start a session first.\"\n",
	)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}

	if cfg.Telegram.Token != "456:def" {
		t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, "456:def")
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "debug")
	}
	if cfg.Database.Path != "custom.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "custom.db")
	}
	if cfg.Messages.NotRunning != "Start a session first." {
		t.Errorf("Messages.NotRunning = %q, want overridden text", cfg.Messages.NotRunning)
	}
	// Untouched keys keep their defaults.
	if cfg.Messages.AlreadyRunning == "" {
		t.Error("Messages.AlreadyRunning default is empty")
	}
}
