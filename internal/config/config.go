// Package config handles the configuration directory, its files and the
// backend settings read from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "notes"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// EnvFile holds KEY=value settings loaded into the environment.
	EnvFile = "notes.env"
)

// Backends selectable with NOTES_BACKEND.
const (
	BackendMemory      = "memory"
	BackendGoogleTasks = "googletasks"
	BackendAzTables    = "aztables"
)

const (
	defaultTaskList   = "@default"
	defaultTable      = "tasks"
	defaultPartition  = "notes"
	defaultChannel    = "notes:changes"
	defaultListenAddr = "127.0.0.1:8080"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend is one of BackendMemory, BackendGoogleTasks or BackendAzTables.
	Backend string

	// TaskList is the Google Tasks list id.
	TaskList string

	// Azure Tables settings.
	StorageConnectionString string
	TasksTable              string
	TasksPartition          string

	// RedisURL enables change notices when set.
	RedisURL       string
	ChangesChannel string

	// ListenAddr is the serve command's default address.
	ListenAddr string

	// Origin identifies this process in change notices.
	Origin string
}

// New creates a Config for configDir, or the default directory when empty.
// Settings come from the environment, with notes.env in the directory
// filling in variables that are not already set.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	c := &Config{Dir: dir, Origin: uuid.NewString()}

	if err := godotenv.Load(c.EnvPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("invalid %s: %w", EnvFile, err)
	}

	c.Backend = getenv("NOTES_BACKEND", BackendMemory)
	c.TaskList = getenv("NOTES_TASKLIST", defaultTaskList)
	c.StorageConnectionString = os.Getenv("STORAGE_CONNECTION_STRING")
	c.TasksTable = getenv("TASKS_TABLE", defaultTable)
	c.TasksPartition = getenv("TASKS_PARTITION", defaultPartition)
	c.RedisURL = os.Getenv("REDIS_URL")
	c.ChangesChannel = getenv("NOTES_CHANGES_CHANNEL", defaultChannel)
	c.ListenAddr = getenv("NOTES_LISTEN_ADDR", defaultListenAddr)

	switch c.Backend {
	case BackendMemory, BackendGoogleTasks:
	case BackendAzTables:
		if c.StorageConnectionString == "" {
			return nil, errors.New("STORAGE_CONNECTION_STRING is required for the aztables backend")
		}
	default:
		return nil, fmt.Errorf("unknown backend: %s", c.Backend)
	}
	return c, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnvPath returns the path to notes.env.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
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
