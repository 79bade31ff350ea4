// Package config loads settings from an optional YAML file and the
// environment. Environment variables override the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/escaperoom/storage"
)

// DefaultContent is the content source used when none is configured.
const DefaultContent = "content/rooms.json"

type Config struct {
	Content     string `yaml:"content"`
	Storage     string `yaml:"storage"`
	SaveDir     string `yaml:"save_dir"`
	Slot        string `yaml:"slot"`
	RedisAddr   string `yaml:"redis_addr"`
	SQLitePath  string `yaml:"sqlite_path"`
	LogFile     string `yaml:"log_file"`
	Environment string `yaml:"environment"`

	LogLevelName string     `yaml:"log_level"`
	LogLevel     slog.Level `yaml:"-"`
}

// DefaultPath returns ~/.escaperoom/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".escaperoom", "config.yaml")
}

// DefaultLogFile returns ~/.escaperoom/escaperoom.log, or "" without a home
// directory.
func DefaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".escaperoom", "escaperoom.log")
}

// Load reads path (missing files are fine) and applies env overrides. An
// empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Content:      DefaultContent,
		Storage:      "file",
		Environment:  "development",
		LogLevelName: "info",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.Content = getEnv("ESCAPEROOM_CONTENT", cfg.Content)
	cfg.Storage = getEnv("ESCAPEROOM_STORAGE", cfg.Storage)
	cfg.SaveDir = getEnv("ESCAPEROOM_SAVE_DIR", cfg.SaveDir)
	cfg.Slot = getEnv("ESCAPEROOM_SLOT", cfg.Slot)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.SQLitePath = getEnv("ESCAPEROOM_SQLITE_PATH", cfg.SQLitePath)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevelName = getEnv("LOG_LEVEL", cfg.LogLevelName)
	cfg.LogLevel = ParseLogLevel(cfg.LogLevelName)

	cfg.SaveDir = expandHome(cfg.SaveDir)
	cfg.SQLitePath = expandHome(cfg.SQLitePath)
	cfg.LogFile = expandHome(cfg.LogFile)
	return cfg, nil
}

// StorageOptions maps the storage settings onto storage.Options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:    c.Storage,
		Slot:       c.Slot,
		Dir:        c.SaveDir,
		RedisAddr:  c.RedisAddr,
		SQLitePath: c.SQLitePath,
	}
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
