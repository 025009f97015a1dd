// Package config resolves the configuration directory and loads settings
// from config.yaml, .env and STUDYTRACK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"studytrack/internal/assignment"
)

const (
	// AppName is the application directory name.
	AppName = "studytrack"

	// EnvPrefix prefixes environment overrides, e.g. STUDYTRACK_STORAGE_DRIVER.
	EnvPrefix = "STUDYTRACK"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// DotEnvFile is loaded into the environment before settings are read.
	DotEnvFile = ".env"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// LogFile receives JSON logs when log.file is enabled.
	LogFile = "studytrack.log"

	// DefaultStorageKey names the stored snapshot.
	DefaultStorageKey = "assignments"

	// DefaultExportList is the Google Tasks list used by export.
	DefaultExportList = "Assignments"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// StorageDriver selects the persistence backend: file, bolt, sqlite or memory.
	StorageDriver string

	// StorageKey names the single stored snapshot.
	StorageKey string

	// Subjects are the subjects accepted by add. Empty means any.
	Subjects []string

	// Timezone is the IANA zone used for calendar days. Empty means local.
	Timezone string

	// ExportList is the default Google Tasks list for export.
	ExportList string

	// LogToFile enables the rotated JSON log in Dir.
	LogToFile bool

	// Logger is set by the dispatcher once flags are parsed.
	Logger *zap.Logger

	// Clock overrides the wall clock (tests).
	Clock func() time.Time

	loc *time.Location
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/studytrack or $HOME/.config/studytrack.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	// .env only fills variables that are not already set.
	dotEnv := filepath.Join(dir, DotEnvFile)
	if _, err := os.Stat(dotEnv); err == nil {
		if err := godotenv.Load(dotEnv); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", dotEnv, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot read %s: %w", dotEnv, err)
	}

	v := viper.New()
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.key", DefaultStorageKey)
	v.SetDefault("subjects", assignment.DefaultSubjects)
	v.SetDefault("timezone", "")
	v.SetDefault("export.list", DefaultExportList)
	v.SetDefault("log.file", false)

	v.SetConfigFile(filepath.Join(dir, ConfigFile))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	cfg := &Config{
		Dir:           dir,
		StorageDriver: strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
		StorageKey:    v.GetString("storage.key"),
		Subjects:      subjects(v),
		Timezone:      v.GetString("timezone"),
		ExportList:    v.GetString("export.list"),
		LogToFile:     v.GetBool("log.file"),
	}
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone: %s", cfg.Timezone)
		}
		cfg.loc = loc
	}
	return cfg, nil
}

// subjects reads the subject list. Environment values are comma separated so
// that names may contain spaces.
func subjects(v *viper.Viper) []string {
	raw, ok := os.LookupEnv(EnvPrefix + "_SUBJECTS")
	if !ok {
		return v.GetStringSlice("subjects")
	}
	var list []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}
	return list
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Location returns the zone used for calendar-day comparisons.
func (c *Config) Location() *time.Location {
	switch {
	case c.loc != nil:
		return c.loc
	case c.Clock != nil:
		return c.Clock().Location()
	default:
		return time.Local
	}
}

// Now returns the current time in Location.
func (c *Config) Now() time.Time {
	if c.Clock != nil {
		t := c.Clock()
		if c.loc != nil {
			t = t.In(c.loc)
		}
		return t
	}
	return time.Now().In(c.Location())
}

// Log returns the configured logger, or a no-op logger.
func (c *Config) Log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Driver returns the storage driver name, defaulting to file.
func (c *Config) Driver() string {
	if c.StorageDriver == "" {
		return "file"
	}
	return c.StorageDriver
}

// Key returns the storage key, defaulting to DefaultStorageKey.
func (c *Config) Key() string {
	if c.StorageKey == "" {
		return DefaultStorageKey
	}
	return c.StorageKey
}

// ExportListName returns the export list, defaulting to DefaultExportList.
func (c *Config) ExportListName() string {
	if strings.TrimSpace(c.ExportList) == "" {
		return DefaultExportList
	}
	return c.ExportList
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// LogPath returns the path of the JSON log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
