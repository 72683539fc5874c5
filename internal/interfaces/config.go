package interfaces

// Config represents the user settings that seed a new datapack
type Config struct {
	Description        string `toml:"description"`
	PlayerName         string `toml:"player_name"`
	DisplayItem        string `toml:"display_item"`
	MinecraftVersion   string `toml:"minecraft_version"`
	InteractiveDefault bool   `toml:"interactive_default"`
}

// ConfigManager handles configuration loading and resolution
type ConfigManager interface {
	// Load loads configuration from the specified path
	Load(path string) (*Config, error)

	// Resolve applies precedence rules (flags > env > config > defaults)
	Resolve() (*Config, error)

	// Validate validates the configuration values
	Validate(config *Config) error
}
