package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"nucleus-cli/internal/interfaces"
	"nucleus-cli/internal/logging"
)

// ErrSettingsExist is returned by WriteSettings when the file is already there
var ErrSettingsExist = errors.New("settings file already exists")

// WriteSettings writes cfg as a TOML settings file and returns the path it
// wrote to. An empty path means DefaultPath. An existing file is replaced only
// when force is set.
func WriteSettings(path string, cfg *interfaces.Config, force bool) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("config cannot be nil")
	}

	if path == "" {
		path = DefaultPath()
	}

	path, err := expandPath(path)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%w: %s (use --force to replace it)", ErrSettingsExist, path)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return path, fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return path, fmt.Errorf("failed to create settings directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return path, fmt.Errorf("failed to write settings file %s: %w", path, err)
	}

	logger := logging.GetLogger("config")
	logger.Info().Str("path", path).Msg("Settings written")
	return path, nil
}
