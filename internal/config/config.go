package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// SystemApplicationsDir is where packages install launcher entries
const SystemApplicationsDir = "/usr/share/applications"

// Environment overrides
const (
	EnvSystemDir = "MENUEDIT_SYSTEM_DIR"
	EnvUserDir   = "MENUEDIT_USER_DIR"
	EnvLogLevel  = "MENUEDIT_LOG_LEVEL"
)

// Config holds the application configuration
type Config struct {
	Theme           string `json:"theme"`             // Chroma style for highlighting
	ShowLineNumbers bool   `json:"show_line_numbers"` // Line numbers in the preview
	HistoryEnabled  bool   `json:"history_enabled"`   // Commit saved files to the history repo
	Editor          string `json:"editor"`            // External editor command (empty = $VISUAL/$EDITOR)
	CategoriesFile  string `json:"categories_file"`   // Optional YAML category map
	LogLevel        string `json:"log_level"`

	SystemDir string `json:"-"` // Resolved system applications directory
	UserDir   string `json:"-"` // Resolved user applications directory
	FirstRun  bool   `json:"-"` // No settings file yet
}

// configFileName is the name of the config file
const configFileName = "settings.json"

// Themes are the styles offered in the settings screen
var Themes = []string{"catppuccin-mocha", "dracula", "monokai", "nord", "github-dark", "solarized-dark"}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Theme:           "catppuccin-mocha",
		ShowLineNumbers: true,
		HistoryEnabled:  true,
		LogLevel:        "info",
		SystemDir:       SystemApplicationsDir,
		UserDir:         UserApplicationsDir(),
		FirstRun:        true,
	}
}

// ConfigDir returns the directory containing menuedit config files
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "menuedit")
}

// ConfigPath returns the path to the settings file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// EnvPath returns the path to the optional .env file
func EnvPath() string {
	return filepath.Join(ConfigDir(), ".env")
}

// UserApplicationsDir returns $XDG_DATA_HOME/applications or
// ~/.local/share/applications.
func UserApplicationsDir() string {
	return filepath.Join(dataHome(), "applications")
}

// HistoryDir returns the directory of the save history repository
func HistoryDir() string {
	return filepath.Join(dataHome(), "menuedit", "history")
}

// LogPath returns the log file used while the TUI owns the terminal
func LogPath() string {
	cache := os.Getenv("XDG_CACHE_HOME")
	if cache == "" {
		homeDir, _ := os.UserHomeDir()
		cache = filepath.Join(homeDir, ".cache")
	}
	return filepath.Join(cache, "menuedit", "menuedit.log")
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share")
}

// Load loads the settings file and applies environment overrides
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case os.IsNotExist(err):
		// First run - keep defaults
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid settings %s: %w", ConfigPath(), err)
		}
		cfg.FirstRun = false
	}

	if err := loadEnvFile(EnvPath()); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	return cfg, nil
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.SystemDir = getEnv(EnvSystemDir, c.SystemDir)
	c.UserDir = getEnv(EnvUserDir, c.UserDir)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Save saves the configuration to file
func (c *Config) Save() error {
	configPath := ConfigPath()

	// Create config directory
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return err
	}
	c.FirstRun = false
	return nil
}

// Validate checks values that would otherwise fail later
func (c *Config) Validate() error {
	if !slices.Contains(styles.Names(), c.Theme) {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.SystemDir == "" || c.UserDir == "" {
		return fmt.Errorf("application directories must not be empty")
	}
	return nil
}

// NextTheme cycles through Themes
func (c *Config) NextTheme() {
	i := slices.Index(Themes, c.Theme)
	c.Theme = Themes[(i+1)%len(Themes)]
}
