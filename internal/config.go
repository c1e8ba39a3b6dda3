package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/metadata"
)

// Auth modes for the control API.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Vault    VaultConfig       `yaml:"vault"`
	Remote   RemoteConfig      `yaml:"remote"`
	Publish  PublishConfig     `yaml:"publish"`
	AutoSync AutoSyncConfig    `yaml:"auto_sync"`
	History  HistoryConfig     `yaml:"history"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Remote.Validate(); err != nil {
		return err
	}
	if err := c.Publish.Validate(); err != nil {
		return err
	}
	if err := c.AutoSync.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the control API server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig locates the Markdown vault and the folder scope within it.
// An empty Folder means every .md file in the vault is in scope.
type VaultConfig struct {
	Path   string `yaml:"path"`
	Folder string `yaml:"folder"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// RemoteConfig holds the remote store endpoint and credential. The token
// may be empty in the file; syncing without one fails with a config error
// at request time, never with a malformed auth header on the wire.
type RemoteConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// Validate validates the remote configuration.
func (c *RemoteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
	)
}

// PublishConfig holds the metadata resolution rules.
type PublishConfig struct {
	// TagPrefix keeps only tags with this prefix and strips it
	// (e.g. "publish/"). Empty keeps all tags unfiltered.
	TagPrefix string `yaml:"tag_prefix"`
	// SlugStrategy is one of filename, title, date-filename, date-title.
	SlugStrategy string `yaml:"slug_strategy"`
	// CategoryMapping maps vault folders to remote category ids.
	CategoryMapping map[string]string `yaml:"category_mapping"`
	// DefaultCategoryID applies when no folder mapping matches.
	DefaultCategoryID string `yaml:"default_category_id"`
	// SyncOnSave syncs a note whenever its file changes on disk.
	SyncOnSave bool `yaml:"sync_on_save"`
}

// Validate validates the publish configuration.
func (c *PublishConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SlugStrategy, validation.In(metadata.SlugStrategies...)),
	)
}

// MetadataOptions converts the publish rules into extractor options.
func (c *PublishConfig) MetadataOptions() metadata.Options {
	return metadata.Options{
		TagPrefix:         c.TagPrefix,
		SlugStrategy:      metadata.SlugStrategy(c.SlugStrategy),
		CategoryMapping:   c.CategoryMapping,
		DefaultCategoryID: c.DefaultCategoryID,
	}
}

// AutoSyncConfig controls the periodic batch sync.
type AutoSyncConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalMinutes int  `yaml:"interval_minutes"`
}

// Validate validates the auto-sync configuration. The interval is bounded
// to the 5–120 minute range exposed by clients.
func (c *AutoSyncConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.IntervalMinutes, validation.Required, validation.Min(5), validation.Max(120)),
	)
}

// HistoryConfig locates the sync journal database. Empty disables the
// journal.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds control API authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when control API authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path:   "./vault",
			Folder: "Notes",
		},
		Remote: RemoteConfig{
			BaseURL: "http://localhost:4000/api",
		},
		Publish: PublishConfig{
			TagPrefix:    "publish/",
			SlugStrategy: string(metadata.SlugFilename),
			SyncOnSave:   true,
		},
		AutoSync: AutoSyncConfig{
			Enabled:         false,
			IntervalMinutes: 30,
		},
		History: HistoryConfig{
			Path: "./ansuz.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
