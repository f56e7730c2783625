package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
)

// Browse orders for an empty search.
const (
	BrowseOldest = "oldest"
	BrowseNewest = "newest"
)

// Default timeouts.
const (
	DefaultGitTimeout  = 2 * time.Second
	DefaultLockTimeout = 500 * time.Millisecond
)

// Duration is a time.Duration read from a TOML string like "2s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("duration must not be negative, got %s", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// SearchConfig holds search settings
type SearchConfig struct {
	Path        bool   `toml:"path"`         // blend full-path matches into the score
	Branch      bool   `toml:"branch"`       // blend git branch matches into the score
	BrowseOrder string `toml:"browse_order"` // "oldest" or "newest"
}

// InstanceConfig declares an IDE installation without running the locator.
type InstanceConfig struct {
	InstanceID  string `toml:"instance_id"`
	Version     string `toml:"version"`
	Name        string `toml:"name"`
	ProductPath string `toml:"product_path"`
}

// Config holds the recents configuration
type Config struct {
	LocatorPath     string           `toml:"locator_path"`
	DataDir         string           `toml:"data_dir"` // base directory holding per-installation settings
	DefaultInstance string           `toml:"default_instance"`
	AutoBackup      bool             `toml:"auto_backup"`
	Search          SearchConfig     `toml:"search"`
	GitTimeout      Duration         `toml:"git_timeout"`
	LockTimeout     Duration         `toml:"lock_timeout"`
	LogFile         string           `toml:"log_file"`
	StateFile       string           `toml:"state_file"`
	Instances       []InstanceConfig `toml:"instances"`
}

// DefaultLocatorPath returns where the IDE installer puts its locator tool.
func DefaultLocatorPath() string {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("ProgramFiles(x86)"); dir != "" {
			return filepath.Join(dir, "Microsoft Visual Studio", "Installer", "vswhere.exe")
		}
		return `C:\Program Files (x86)\Microsoft Visual Studio\Installer\vswhere.exe`
	}
	return "vswhere"
}

// Default returns the default configuration
func Default() Config {
	return Config{
		LocatorPath: DefaultLocatorPath(),
		DataDir:     os.Getenv("LOCALAPPDATA"),
		AutoBackup:  true,
		Search: SearchConfig{
			BrowseOrder: BrowseOldest,
		},
		GitTimeout:  Duration{DefaultGitTimeout},
		LockTimeout: Duration{DefaultLockTimeout},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the config file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "recents", "config.toml"), nil
}

// rawConfig mirrors Config with optional fields so unset keys keep defaults
type rawConfig struct {
	LocatorPath     string           `toml:"locator_path"`
	DataDir         string           `toml:"data_dir"`
	DefaultInstance string           `toml:"default_instance"`
	AutoBackup      *bool            `toml:"auto_backup"`
	Search          SearchConfig     `toml:"search"`
	GitTimeout      *Duration        `toml:"git_timeout"`
	LockTimeout     *Duration        `toml:"lock_timeout"`
	LogFile         string           `toml:"log_file"`
	StateFile       string           `toml:"state_file"`
	Instances       []InstanceConfig `toml:"instances"`
}

// Load reads config from ~/.config/recents/config.toml
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		return cfg, applyEnvOverrides(&cfg)
	}
	return LoadFile(path)
}

// LoadFile reads config from path. Environment overrides are applied last.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return cfg, applyEnvOverrides(&cfg)
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	if raw.LocatorPath != "" {
		cfg.LocatorPath = raw.LocatorPath
	}
	if raw.DataDir != "" {
		cfg.DataDir = raw.DataDir
	}
	cfg.DefaultInstance = raw.DefaultInstance
	if raw.AutoBackup != nil {
		cfg.AutoBackup = *raw.AutoBackup
	}
	cfg.Search.Path = raw.Search.Path
	cfg.Search.Branch = raw.Search.Branch
	if raw.Search.BrowseOrder != "" {
		cfg.Search.BrowseOrder = raw.Search.BrowseOrder
	}
	if raw.GitTimeout != nil {
		cfg.GitTimeout = *raw.GitTimeout
	}
	if raw.LockTimeout != nil {
		cfg.LockTimeout = *raw.LockTimeout
	}
	cfg.LogFile = raw.LogFile
	cfg.StateFile = raw.StateFile
	cfg.Instances = raw.Instances

	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// applyEnvOverrides applies RECENTS_* environment variables, then validates
// and expands the path settings.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("RECENTS_LOCATOR"); v != "" {
		cfg.LocatorPath = v
	}
	if v := os.Getenv("RECENTS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	return cfg.normalize()
}

func (c *Config) normalize() error {
	paths := []struct {
		field string
		value *string
	}{
		{"data_dir", &c.DataDir},
		{"log_file", &c.LogFile},
		{"state_file", &c.StateFile},
	}
	for _, p := range paths {
		if err := ValidatePath(*p.value, p.field); err != nil {
			return err
		}
		// Expand ~ (shell doesn't expand in config files)
		expanded, err := expandPath(*p.value)
		if err != nil {
			return fmt.Errorf("expand %s: %w", p.field, err)
		}
		*p.value = expanded
	}

	expanded, err := expandPath(c.LocatorPath)
	if err != nil {
		return fmt.Errorf("expand locator_path: %w", err)
	}
	c.LocatorPath = expanded

	if err := validateEnum(c.Search.BrowseOrder, "search.browse_order", ValidBrowseOrders); err != nil {
		return err
	}
	return validateInstances(c.Instances)
}

// BrowseNewestFirst reports whether an empty search lists the most recently
// accessed entries first.
func (c *Config) BrowseNewestFirst() bool {
	return c.Search.BrowseOrder == BrowseNewest
}

type configKey struct{}

// WithConfig returns a new context with the config stored in it.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config from context, or nil if none is stored.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	return nil
}

const defaultConfig = `# recents configuration

# Locator executable used to discover IDE installations.
# Can be overridden with RECENTS_LOCATOR.
# locator_path = "C:\\Program Files (x86)\\Microsoft Visual Studio\\Installer\\vswhere.exe"

# Base directory holding per-installation settings (usually %LOCALAPPDATA%).
# Must be an absolute path or start with ~. Can be overridden with RECENTS_DATA_DIR.
# data_dir = "~/AppData/Local"

# Installation to open items with, as "<major>.0_<instanceId>".
# Leave empty to let the environment decide.
# default_instance = ""

# Take a backup of the recent items list once a day during refresh.
auto_backup = true

# How long to wait for a locked record file before giving up on it.
# lock_timeout = "500ms"

# How long a single git branch lookup may take.
# git_timeout = "2s"

# Optional rotating log file for debug output.
# log_file = "~/.recents/recents.log"

# Where state (last backup, backup snapshot) is kept.
# state_file = "~/.recents/state.json"

[search]
# Blend full-path matches into the score.
path = false
# Blend git branch matches into the score.
branch = false
# Order for an empty search: "oldest" or "newest" first.
browse_order = "oldest"

# Installations can be listed directly, e.g. when the locator is unavailable.
# [[instances]]
# instance_id = "a1b2c3d4"
# version = "17.9.34607.119"
# name = "Visual Studio Community 2022"
# product_path = "C:\\Program Files\\Microsoft Visual Studio\\2022\\Community\\Common7\\IDE\\devenv.exe"
`

// DefaultConfig returns the contents written by Init.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at ~/.config/recents/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, InitFile(path, force)
}

// InitFile writes the default config to path.
func InitFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}
