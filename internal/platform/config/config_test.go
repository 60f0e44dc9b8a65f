package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"skytools/internal/platform/config"
)

func TestNewDerivesPaths(t *testing.T) {
	t.Parallel()
	cfg, err := config.New("/tmp/sky")
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.StatePath != filepath.Join("/tmp/sky", "measurement.json") {
		t.Fatalf("unexpected state path %s", cfg.StatePath)
	}
	if cfg.PluginDir != filepath.Join("/tmp/sky", "plugins") {
		t.Fatalf("unexpected plugin dir %s", cfg.PluginDir)
	}
	if _, err := config.New("  "); err == nil {
		t.Fatalf("blank state dir should fail")
	}
}

func TestLoadReadsExplicitFileAndFlagsWin(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := filepath.Join(dir, "skytools.yaml")
	content := "state_dir: " + dir + "\nscanner: qrscan\nlog_level: debug\nhttp:\n  addr: 0.0.0.0:9000\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.String("scanner", "", "")
	if err := flags.Parse([]string{"--log-level", "warn"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := config.Load(file, flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StateDir != dir || cfg.Scanner != "qrscan" || cfg.HTTPAddr != "0.0.0.0:9000" {
		t.Fatalf("config file values not applied: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("changed flag should win over file, got %s", cfg.LogLevel)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	t.Parallel()
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoadImplicitFileIsOptional(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state-dir", "", "")
	if err := flags.Parse([]string{"--state-dir", dir}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := config.Load("", flags)
	if err != nil {
		t.Fatalf("load without config file: %v", err)
	}
	if cfg.StateDir != dir || cfg.LogLevel != "info" || cfg.HTTPAddr != "127.0.0.1:8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadImplicitFileUnderTildeStateDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	stateDir := filepath.Join(home, "sky")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stateDir, "config.yaml"), []byte("scanner: qrscan\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state-dir", "", "")
	if err := flags.Parse([]string{"--state-dir", "~/sky"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := config.Load("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StateDir != stateDir {
		t.Fatalf("expected expanded state dir %s, got %s", stateDir, cfg.StateDir)
	}
	if cfg.Scanner != "qrscan" {
		t.Fatalf("config.yaml under the expanded state dir was not read: %+v", cfg)
	}
}
