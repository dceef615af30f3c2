// Package config loads tomo's YAML configuration and watches it for changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	DB       DBConfig       `mapstructure:"db" yaml:"db"`
	Pomodoro PomodoroConfig `mapstructure:"pomodoro" yaml:"pomodoro"`
	Progress ProgressConfig `mapstructure:"progress" yaml:"progress"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type DBConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // file path or :memory:
}

type PomodoroConfig struct {
	WorkMinutes int `mapstructure:"work_minutes" yaml:"work_minutes"`
	RestMinutes int `mapstructure:"rest_minutes" yaml:"rest_minutes"`
}

type ProgressConfig struct {
	// CountSealedStartable counts the never-started pomodoros of a sealed
	// item as done. When false they are dropped from the pomodoro total.
	CountSealedStartable bool `mapstructure:"count_sealed_startable" yaml:"count_sealed_startable"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

const (
	EnvHome      = "TOMO_HOME"
	EnvDB        = "TOMO_DB"
	EnvLogLevel  = "TOMO_LOG_LEVEL"
	EnvLogFormat = "TOMO_LOG_FORMAT"
)

// Home returns $TOMO_HOME, or ~/.tomo when unset.
func Home() string {
	if h := os.Getenv(EnvHome); h != "" {
		return h
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".tomo"
	}
	return filepath.Join(userHome, ".tomo")
}

func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

func DefaultConfig() *Config {
	return defaultsFor(Home())
}

func defaultsFor(home string) *Config {
	return &Config{
		DB:       DBConfig{Path: filepath.Join(home, "tomo.db")},
		Pomodoro: PomodoroConfig{WorkMinutes: 25, RestMinutes: 5},
		Progress: ProgressConfig{CountSealedStartable: true},
		Log:      LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads home/config.yaml over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(home string) (*Config, error) {
	v := newViper(home)

	configPath := Path(home)
	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.DB.Path = expandHome(cfg.DB.Path)
	return cfg, nil
}

func newViper(home string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(Path(home))
	v.SetConfigType("yaml")

	def := defaultsFor(home)
	v.SetDefault("db.path", def.DB.Path)
	v.SetDefault("pomodoro.work_minutes", def.Pomodoro.WorkMinutes)
	v.SetDefault("pomodoro.rest_minutes", def.Pomodoro.RestMinutes)
	v.SetDefault("progress.count_sealed_startable", def.Progress.CountSealedStartable)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	_ = v.BindEnv("db.path", EnvDB)
	_ = v.BindEnv("log.level", EnvLogLevel)
	_ = v.BindEnv("log.format", EnvLogFormat)
	return v
}

func Save(home string, cfg *Config) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	v := viper.New()
	v.SetConfigFile(Path(home))
	v.SetConfigType("yaml")

	v.Set("db.path", cfg.DB.Path)
	v.Set("pomodoro.work_minutes", cfg.Pomodoro.WorkMinutes)
	v.Set("pomodoro.rest_minutes", cfg.Pomodoro.RestMinutes)
	v.Set("progress.count_sealed_startable", cfg.Progress.CountSealedStartable)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate reports every problem at once. Each error wraps ErrInvalid.
func Validate(cfg *Config) error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		invalid("db.path is empty")
	}
	if cfg.Pomodoro.WorkMinutes <= 0 {
		invalid("pomodoro.work_minutes must be positive, got %d", cfg.Pomodoro.WorkMinutes)
	}
	if cfg.Pomodoro.RestMinutes <= 0 {
		invalid("pomodoro.rest_minutes must be positive, got %d", cfg.Pomodoro.RestMinutes)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		invalid("log.level %q (valid: debug, info, warn, error)", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		invalid("log.format %q (valid: text, json)", cfg.Log.Format)
	}
	return errors.Join(errs...)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(userHome, strings.TrimPrefix(path, "~"))
}
