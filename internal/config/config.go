// Package config resolves lectio settings from flags, the environment,
// an optional .env file and the TOML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/utils"
)

// Config validation errors.
var (
	ErrStoreEmpty         = errors.New("store location must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrBackendMismatch    = errors.New("postgres backend requires a postgres:// store location")
	ErrTimezoneInvalid    = errors.New("invalid timezone")
	ErrMaxBackupsInvalid  = errors.New("max backups must be positive")
	ErrConfigPathRequired = errors.New("config path is empty")
)

var knownBackends = map[string]bool{
	constants.BackendJSON:     true,
	constants.BackendSQLite:   true,
	constants.BackendPostgres: true,
}

// FileConfig is the TOML configuration file. Pointer fields distinguish
// "unset" from zero values.
type FileConfig struct {
	Store   StoreConfig   `toml:"store"`
	Display DisplayConfig `toml:"display"`
	Log     LogConfig     `toml:"log"`
	Backup  BackupConfig  `toml:"backup"`
}

type StoreConfig struct {
	Location *string `toml:"location"`
	Backend  *string `toml:"backend"`
}

type DisplayConfig struct {
	Timezone *string `toml:"timezone"`
}

type LogConfig struct {
	Debug *bool `toml:"debug"`
}

type BackupConfig struct {
	Auto *bool   `toml:"auto"`
	Keep *int    `toml:"keep"`
	Dir  *string `toml:"dir"`
}

// Overrides carries values given on the command line
type Overrides struct {
	ConfigPath string
	Store      string
	Debug      bool
}

// Config is the resolved configuration
type Config struct {
	ConfigPath string
	ConfigDir  string
	Store      string
	Backend    string
	Timezone   string
	Debug      bool
	AutoBackup bool
	MaxBackups int
	BackupDir  string // empty means beside the store
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		ConfigPath: DefaultConfigPath(),
		ConfigDir:  DefaultConfigDir(),
		Store:      DefaultStorePath(),
		Backend:    constants.BackendSQLite,
		Timezone:   constants.DefaultTimezone,
		AutoBackup: true,
		MaxBackups: constants.MaxBackups,
	}
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, ErrConfigPathRequired
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Load resolves the configuration. Precedence: flags, environment
// (including .env in the config dir), TOML file, defaults.
func Load(o Overrides) (Config, error) {
	cfg := Default()
	if o.ConfigPath != "" {
		cfg.ConfigPath = o.ConfigPath
		cfg.ConfigDir = filepath.Dir(o.ConfigPath)
	}

	// .env never overrides variables already set in the environment
	envFile := filepath.Join(cfg.ConfigDir, constants.DefaultEnvFileName)
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	file, err := LoadFile(cfg.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	cfg.applyFile(file)

	explicitBackend := file.Store.Backend != nil
	if err := cfg.applyEnv(&explicitBackend); err != nil {
		return Config{}, err
	}

	if o.Store != "" {
		cfg.Store = o.Store
	}
	if o.Debug {
		cfg.Debug = true
	}

	cfg.Store = expandHome(cfg.Store)
	cfg.BackupDir = expandHome(cfg.BackupDir)
	if !explicitBackend {
		cfg.Backend = DetectBackend(cfg.Store)
	}

	return cfg, nil
}

func (c *Config) applyFile(f FileConfig) {
	if f.Store.Location != nil {
		c.Store = *f.Store.Location
	}
	if f.Store.Backend != nil {
		c.Backend = strings.ToLower(*f.Store.Backend)
	}
	if f.Display.Timezone != nil {
		c.Timezone = *f.Display.Timezone
	}
	if f.Log.Debug != nil {
		c.Debug = *f.Log.Debug
	}
	if f.Backup.Auto != nil {
		c.AutoBackup = *f.Backup.Auto
	}
	if f.Backup.Keep != nil {
		c.MaxBackups = *f.Backup.Keep
	}
	if f.Backup.Dir != nil {
		c.BackupDir = *f.Backup.Dir
	}
}

func (c *Config) applyEnv(explicitBackend *bool) error {
	if v := os.Getenv(constants.EnvStore); v != "" {
		c.Store = v
	}
	if v := os.Getenv(constants.EnvBackend); v != "" {
		c.Backend = strings.ToLower(v)
		*explicitBackend = true
	}
	if v := os.Getenv(constants.EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(constants.EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", constants.EnvDebug, v, err)
		}
		c.Debug = debug
	}
	return nil
}

// DetectBackend infers the backend from a store location
func DetectBackend(location string) string {
	switch {
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return constants.BackendPostgres
	case strings.EqualFold(filepath.Ext(location), ".json"):
		return constants.BackendJSON
	default:
		return constants.BackendSQLite
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return ErrStoreEmpty
	}
	if !knownBackends[c.Backend] {
		return fmt.Errorf("%w: %s", ErrBackendUnknown, c.Backend)
	}
	if c.Backend == constants.BackendPostgres && DetectBackend(c.Store) != constants.BackendPostgres {
		return ErrBackendMismatch
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("%w: %s", ErrTimezoneInvalid, c.Timezone)
	}
	if c.MaxBackups <= 0 {
		return ErrMaxBackupsInvalid
	}
	return nil
}

// Location loads the configured timezone
func (c Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}
