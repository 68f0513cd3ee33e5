package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ledger/internal/paths"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "LEDGER"
)

// defaults are applied before config.yaml and LEDGER_* variables. Every
// key is listed so that viper binds its environment variable.
var defaults = map[string]any{
	"backend":           types.BackendSQLite,
	"data_dir":          "",
	"dsn":               "",
	"schema":            "",
	"skip_foreign_keys": false,
	"log_level":         "info",
}

// loadConfig builds the effective configuration: defaults, then
// config.yaml from the config directory, then LEDGER_* environment
// variables, then global flags. A default config.yaml is written on first
// run.
func (a *app) loadConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := writeConfigIfMissing(configDir, a.flags.dataDir); err != nil {
		return types.Config{}, err
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if a.flags.backend != "" {
		cfg.Backend = a.flags.backend
	}
	if a.flags.dsn != "" {
		cfg.DSN = a.flags.dsn
	}
	if a.flags.logLevel != "" {
		cfg.LogLevel = a.flags.logLevel
	}
	if cfg.Backend == types.BackendSQLite && cfg.DSN == "" {
		if cfg.DataDir, err = paths.ResolveDataDir(a.flags.dataDir, cfg.DataDir); err != nil {
			return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, usageError("config: %v", err)
	}
	return cfg, nil
}

// configFile holds the structure written to a new config.yaml.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir,omitempty"`
	LogLevel string `yaml:"log_level"`
}

// writeConfigIfMissing creates configDir and a default config.yaml if the
// file does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(configDir, dataDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		Backend:  types.BackendSQLite,
		DataDir:  dataDir,
		LogLevel: "info",
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
