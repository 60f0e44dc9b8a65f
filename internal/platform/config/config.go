package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "SKYTOOLS"
	defaultLogLevel = "info"
	defaultHTTPAddr = "127.0.0.1:8080"
)

type Config struct {
	StateDir  string
	StatePath string
	PluginDir string
	Scanner   string
	LogLevel  string
	HTTPAddr  string
}

// flagKeys maps cobra flag names to viper keys.
var flagKeys = map[string]string{
	"state-dir":  "state_dir",
	"plugin-dir": "plugin_dir",
	"scanner":    "scanner",
	"log-level":  "log_level",
	"addr":       "http.addr",
}

func New(stateDir string) (Config, error) {
	if strings.TrimSpace(stateDir) == "" {
		return Config{}, fmt.Errorf("state dir is required")
	}
	return Config{
		StateDir:  stateDir,
		StatePath: filepath.Join(stateDir, "measurement.json"),
		PluginDir: filepath.Join(stateDir, "plugins"),
		LogLevel:  defaultLogLevel,
		HTTPAddr:  defaultHTTPAddr,
	}, nil
}

// Load resolves configuration from defaults, an optional YAML file, SKYTOOLS_*
// environment variables and flags, in increasing precedence. An explicit
// configFile must exist; the implicit <state_dir>/config.yaml may be absent.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault("state_dir", defaultStateDir())
	v.SetDefault("plugin_dir", "")
	v.SetDefault("scanner", "")
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("http.addr", defaultHTTPAddr)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(expandHome(v.GetString("state_dir")))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg, err := New(expandHome(v.GetString("state_dir")))
	if err != nil {
		return Config{}, err
	}
	if dir := strings.TrimSpace(v.GetString("plugin_dir")); dir != "" {
		cfg.PluginDir = expandHome(dir)
	}
	cfg.Scanner = strings.TrimSpace(v.GetString("scanner"))
	cfg.LogLevel = v.GetString("log_level")
	cfg.HTTPAddr = v.GetString("http.addr")
	return cfg, nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".skytools"
	}
	return filepath.Join(home, ".skytools")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
