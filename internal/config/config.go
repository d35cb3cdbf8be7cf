package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const (
	AppSlug               = "localkeep"
	DefaultLogLevel       = "info"
	DefaultFormat         = "text"
	DefaultJournalEnabled = true
	DefaultJournalName    = "journal.db"

	configFileName = ".localkeep.toml"

	configDirEnvKey = "LOCALKEEP_CONFIG_DIR"
	dataDirEnvKey   = "LOCALKEEP_DATA_DIR"
	journalEnvKey   = "LOCALKEEP_JOURNAL"
)

var formats = []string{"text", "json", "yaml"}

// JournalConfig controls the activity journal.
type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config defines runtime configuration for localkeep.
type Config struct {
	DataDir    string        `toml:"data_dir"`
	LogLevel   string        `toml:"log_level"`
	Format     string        `toml:"format"`
	Journal    JournalConfig `toml:"journal"`
	ConfigPath string        `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		DataDir:  "",
		LogLevel: DefaultLogLevel,
		Format:   DefaultFormat,
		Journal: JournalConfig{
			Enabled: DefaultJournalEnabled,
			Path:    "",
		},
	}
}

// DefaultDataDir returns the XDG data directory for localkeep.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppSlug)
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

var allowedKeys = []string{
	"data_dir",
	"log_level",
	"format",
	"journal.enabled",
	"journal.path",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "data_dir":
		return c.DataDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "format":
		return c.Format, nil
	case "journal.enabled":
		return strconv.FormatBool(c.Journal.Enabled), nil
	case "journal.path":
		return c.Journal.Path, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Path returns the config file path.
func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads the config file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		loaded, loadErr := loadFileIfExists(path, &cfg)
		if loadErr != nil {
			return nil, loadErr
		}
		if loaded {
			cfg.ConfigPath = path
		}
	}

	if dataDir := strings.TrimSpace(os.Getenv(dataDirEnvKey)); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if raw := strings.TrimSpace(os.Getenv(journalEnvKey)); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			cfg.Journal.Enabled = parsed
		}
	}

	cfg.normalize()

	return &cfg, nil
}

// SetDataDir overrides the data dir and re-derives dependent defaults.
func (c *Config) SetDataDir(dir string) {
	previous := c.defaultJournalPath()
	c.DataDir = strings.TrimSpace(dir)
	if c.Journal.Path == previous {
		c.Journal.Path = ""
	}
	c.normalize()
}

func (c *Config) defaultJournalPath() string {
	return filepath.Join(c.DataDir, DefaultJournalName)
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = DefaultDataDir()
	}
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = c.defaultJournalPath()
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if !IsFormat(c.Format) {
		c.Format = DefaultFormat
	}
}

// IsFormat reports whether value names a supported output format.
func IsFormat(value string) bool {
	for _, f := range formats {
		if f == value {
			return true
		}
	}
	return false
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "journal.enabled":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false", key)
		}
		return parsed, nil
	case "format":
		value = strings.ToLower(value)
		if !IsFormat(value) {
			return nil, fmt.Errorf("format must be one of %s", strings.Join(formats, ", "))
		}
		return value, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}
