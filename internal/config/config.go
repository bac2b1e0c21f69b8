// Package config loads datamgr settings from .datamgr.yaml, DATAMGR_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sadopc/datamgr/internal/store"
)

const (
	KeyDataDir      = "data_dir"
	KeyBackend      = "backend"
	KeyTheme        = "theme"
	KeyExportDir    = "export_dir"
	KeyImportDedupe = "import.dedupe"
	KeyLogLevel     = "log.level"
	KeyLogFile      = "log.file"
)

const (
	ThemePlain    = "plain"
	ThemeTerminal = "terminal"
)

type Config struct {
	DataDir      string
	Backend      string
	Theme        string
	ExportDir    string
	ImportDedupe bool
	LogLevel     string
	LogFile      string
	// File is the config file that was read, empty when none was found.
	File string
}

// Load reads the configuration. path, when set, names the config file
// explicitly; otherwise .datamgr.yaml is searched in the working directory
// and the home directory. flags that are bound by name override everything.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	dataDir, err := store.DefaultDataDir()
	if err != nil {
		dataDir = ".datamgr"
	}
	home, err := homedir.Dir()
	if err != nil {
		home = "."
	}

	v.SetDefault(KeyDataDir, dataDir)
	v.SetDefault(KeyBackend, store.BackendSQLite)
	v.SetDefault(KeyTheme, ThemeTerminal)
	v.SetDefault(KeyExportDir, home)
	v.SetDefault(KeyImportDedupe, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix("DATAMGR")
	v.AutomaticEnv()
	// AutomaticEnv only sees nested keys once the dot is mapped.
	for _, k := range []string{KeyImportDedupe, KeyLogLevel, KeyLogFile} {
		_ = v.BindEnv(k, "DATAMGR_"+envName(k))
	}

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName(".datamgr") // .yaml is implicit
		v.SetConfigType("yaml")
		v.AddConfigPath("./")
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for flag, key := range map[string]string{
			"data-dir": KeyDataDir,
			"backend":  KeyBackend,
			"theme":    KeyTheme,
			"dedupe":   KeyImportDedupe,
		} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	cfg := &Config{
		Backend:      v.GetString(KeyBackend),
		Theme:        v.GetString(KeyTheme),
		ImportDedupe: v.GetBool(KeyImportDedupe),
		LogLevel:     v.GetString(KeyLogLevel),
		File:         v.ConfigFileUsed(),
	}
	if cfg.DataDir, err = expand(v.GetString(KeyDataDir)); err != nil {
		return nil, err
	}
	if cfg.ExportDir, err = expand(v.GetString(KeyExportDir)); err != nil {
		return nil, err
	}
	if cfg.LogFile, err = expand(v.GetString(KeyLogFile)); err != nil {
		return nil, err
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "datamgr.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case store.BackendSQLite, store.BackendDiskv:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, store.BackendSQLite, store.BackendDiskv)
	}
	switch c.Theme {
	case ThemePlain, ThemeTerminal:
	default:
		return fmt.Errorf("unknown theme %q (want %s or %s)", c.Theme, ThemePlain, ThemeTerminal)
	}
	return nil
}

// EnsureDirs creates the data directory.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

func expand(p string) (string, error) {
	out, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p, err)
	}
	return out, nil
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
