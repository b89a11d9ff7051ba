// Package config loads tada settings from TOML files, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DefaultAPIURL is the todo API the app talks to when nothing else is configured.
const DefaultAPIURL = "https://mate.academy/students-api"

const fileName = "tada.toml"

// Config is the effective configuration.
type Config struct {
	// UserID scopes every API call. Zero means "not configured" and switches
	// the app to the onboarding view.
	UserID   int      `toml:"user_id"`
	APIURL   string   `toml:"api_url"`
	Timeout  Duration `toml:"timeout"`
	Theme    string   `toml:"theme"`
	LogFile  string   `toml:"log_file"`
	LogLevel string   `toml:"log_level"`
}

// Duration is a time.Duration that reads and writes as a Go duration string.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	if d.Duration == 0 {
		return []byte(""), nil
	}
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		Theme:    "classic",
		LogFile:  defaultLogFile(),
		LogLevel: "info",
	}
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tada", "tada.log")
}

// UserFile returns the per-user config path, or "" when it cannot be resolved.
func UserFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tada", "config.toml")
}

// Load builds the configuration in priority order:
//  1. defaults
//  2. user config file
//  3. ./tada.toml, or explicitPath when given (a missing explicit file is an error)
//  4. TADA_* environment variables
//
// Flags are applied by the caller on top of the result.
func Load(explicitPath string) (Config, error) {
	cfg := Default()

	if p := UserFile(); p != "" {
		if err := loadFile(&cfg, p, false); err != nil {
			return cfg, err
		}
	}

	if explicitPath != "" {
		if err := loadFile(&cfg, explicitPath, true); err != nil {
			return cfg, err
		}
	} else if err := loadFile(&cfg, fileName, false); err != nil {
		return cfg, err
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from TADA_* variables read through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("TADA_USER_ID"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TADA_USER_ID: not a number: %q", v)
		}
		cfg.UserID = n
	}
	if v, ok := get("TADA_API_URL"); ok {
		cfg.APIURL = v
	}
	if v, ok := get("TADA_TIMEOUT"); ok {
		if err := cfg.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("TADA_TIMEOUT: %w", err)
		}
	}
	if v, ok := get("TADA_THEME"); ok {
		cfg.Theme = v
	}
	if v, ok := get("TADA_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := get("TADA_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	return nil
}

// Validate rejects values the app cannot run with. A zero UserID is valid.
func (c Config) Validate() error {
	if c.UserID < 0 {
		return fmt.Errorf("user_id must not be negative (got %d)", c.UserID)
	}
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is empty")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url: unsupported scheme %q", u.Scheme)
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	switch strings.ToLower(c.Theme) {
	case "", "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", c.Theme)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Configured reports whether an owner identity is set.
func (c Config) Configured() bool { return c.UserID > 0 }

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
