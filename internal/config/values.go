package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
	"nucleus-cli/pkg/models"
)

// Values are pre-filled answers read from a YAML file, so a datapack can be
// generated without prompts:
//
//	name: Explosion Magic
//	description: Explosion!
//	player: Boomber
//	item: minecraft:tnt
//	minecraft_version: "1.16.5"
type Values struct {
	Name             string `yaml:"name"`
	Description      string `yaml:"description"`
	Player           string `yaml:"player"`
	Item             string `yaml:"item"`
	MinecraftVersion string `yaml:"minecraft_version"`
}

// LoadValues reads an answers file
func LoadValues(path string) (*Values, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values file %s: %w", path, err)
	}

	var values Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse values file %s: %w", path, err)
	}

	return &values, nil
}

// ApplyTo fills request fields that were not given on the command line.
// Flags always win over the values file.
func (v *Values) ApplyTo(request *models.DatapackRequest) {
	if v == nil || request == nil {
		return
	}

	fill := func(field *string, value string) {
		if *field == "" && value != "" {
			*field = value
		}
	}

	fill(&request.Name, v.Name)
	fill(&request.Description, v.Description)
	fill(&request.PlayerName, v.Player)
	fill(&request.DisplayItem, v.Item)
	fill(&request.MinecraftVersion, v.MinecraftVersion)
}
