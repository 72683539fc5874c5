package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"nucleus-cli/internal/interfaces"
	"nucleus-cli/internal/packformat"
	"nucleus-cli/internal/validator"
)

// DefaultDescription is used when neither the user nor the settings file supply one
const DefaultDescription = "My amazing datapack"

// Manager implements the ConfigManager interface
type Manager struct {
	v     *viper.Viper
	flags map[string]interface{} // Store flag values for precedence
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("NUCLEUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	return &Manager{
		v:     v,
		flags: make(map[string]interface{}),
	}
}

// Defaults returns the settings used when nothing is configured
func Defaults() *interfaces.Config {
	return &interfaces.Config{
		Description:        DefaultDescription,
		MinecraftVersion:   packformat.DefaultVersion,
		InteractiveDefault: true,
	}
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	defaults := Defaults()
	v.SetDefault("description", defaults.Description)
	v.SetDefault("player_name", defaults.PlayerName)
	v.SetDefault("display_item", defaults.DisplayItem)
	v.SetDefault("minecraft_version", defaults.MinecraftVersion)
	v.SetDefault("interactive_default", defaults.InteractiveDefault)
}

// DefaultPath returns the settings file location under the XDG config home
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "nucleus", "config.toml")
}

// Load loads configuration from the specified path. A missing file is not an
// error; defaults and environment values are used instead.
func (m *Manager) Load(path string) (*interfaces.Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return m.getConfigFromViper(), nil
	}

	m.v.SetConfigFile(path)

	if err := m.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return m.getConfigFromViper(), nil
}

// SetFlag sets a flag value for precedence resolution
func (m *Manager) SetFlag(key string, value interface{}) {
	m.flags[key] = value
}

// Resolve applies precedence rules (flags > env > config > defaults)
func (m *Manager) Resolve() (*interfaces.Config, error) {
	config := m.getConfigFromViper()

	m.applyFlagOverrides(config)

	return config, nil
}

// applyFlagOverrides applies non-empty flag values over the configuration
func (m *Manager) applyFlagOverrides(config *interfaces.Config) {
	overrides := map[string]*string{
		"description":       &config.Description,
		"player_name":       &config.PlayerName,
		"display_item":      &config.DisplayItem,
		"minecraft_version": &config.MinecraftVersion,
	}

	for key, field := range overrides {
		if val, exists := m.flags[key]; exists && val != nil {
			if str, ok := val.(string); ok && str != "" {
				*field = str
			}
		}
	}

	if val, exists := m.flags["interactive_default"]; exists && val != nil {
		if b, ok := val.(bool); ok {
			config.InteractiveDefault = b
		}
	}
}

// Validate validates the configuration values
func (m *Manager) Validate(config *interfaces.Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if config.PlayerName != "" {
		if err := (validator.Name{}).Validate(config.PlayerName); err != nil {
			return fmt.Errorf("invalid player_name: %w", err)
		}
	}

	if config.DisplayItem != "" {
		if err := (validator.Namespace{}).Validate(config.DisplayItem); err != nil {
			return fmt.Errorf("invalid display_item: %w", err)
		}
	}

	if _, err := packformat.Resolve(config.MinecraftVersion); err != nil {
		return fmt.Errorf("invalid minecraft_version: %w", err)
	}

	return nil
}

// getConfigFromViper converts viper configuration to Config struct
// This handles env > config > defaults precedence (flags are applied separately)
func (m *Manager) getConfigFromViper() *interfaces.Config {
	return &interfaces.Config{
		Description:        m.v.GetString("description"),
		PlayerName:         m.v.GetString("player_name"),
		DisplayItem:        m.v.GetString("display_item"),
		MinecraftVersion:   m.v.GetString("minecraft_version"),
		InteractiveDefault: m.v.GetBool("interactive_default"),
	}
}

// expandPath expands ~ to user home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
