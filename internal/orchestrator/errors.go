package orchestrator

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"nucleus-cli/internal/schema"
	"nucleus-cli/internal/template"
)

// Error types for different categories of failures
var (
	ErrConfigurationInvalid = errors.New("configuration error")
	ErrTemplateInvalid      = errors.New("template error")
	ErrValidationFailed     = errors.New("validation error")
	ErrSchemaViolation      = errors.New("schema error")
	ErrGenerationFailed     = errors.New("generation error")
	ErrOutputFailed         = errors.New("output error")
)

// NucleusError represents a structured error with actionable guidance
type NucleusError struct {
	Type     error
	Message  string
	Guidance string
	Cause    error
}

func (e *NucleusError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("%s: %s\n\nSuggestion: %s", e.Type, e.Message, e.Guidance)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *NucleusError) Unwrap() error {
	return e.Cause
}

// Error constructors with actionable guidance

func NewConfigurationError(message string, cause error) *NucleusError {
	guidance := "Check your configuration file syntax. " +
		"Use 'nucleus --config /path/to/config.toml' to specify a different config file."

	if errors.Is(cause, fs.ErrPermission) {
		guidance = "Check file permissions for your configuration directory. " +
			"Ensure you have read access to ~/.config/nucleus/"
	} else if cause != nil {
		switch {
		case strings.Contains(cause.Error(), "minecraft_version"):
			guidance = "Set minecraft_version to a release between 1.13 and 1.20.4, e.g. minecraft_version = \"1.16.5\", " +
				"or override it with --mc-version."
		case strings.Contains(cause.Error(), "player_name"):
			guidance = "Fix player_name in the configuration file (3-16 characters of a-z, 0-9 and _) " +
				"or override it with --player."
		case strings.Contains(cause.Error(), "display_item"):
			guidance = "Fix display_item in the configuration file (e.g. display_item = \"minecraft:tnt\") " +
				"or override it with --item."
		}
	}

	return &NucleusError{
		Type:     ErrConfigurationInvalid,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewTemplateError(templateName string, cause error) *NucleusError {
	message := fmt.Sprintf("failed to process template '%s': %v", templateName, cause)
	guidance := fmt.Sprintf("Template '%s' could not be parsed.", templateName)

	if errors.Is(cause, template.ErrMissingPathMarker) {
		guidance = fmt.Sprintf("The first non-blank line of template '%s' must be a path header "+
			"such as '# data/<namespace>/advancements/<datapack>.json'.", templateName)
	} else if errors.Is(cause, template.ErrUnexpectedEndOfInput) {
		guidance = fmt.Sprintf("Template '%s' has no output path. Add a '# <relative path>' header line.", templateName)
	}

	return &NucleusError{
		Type:     ErrTemplateInvalid,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewSchemaError(templateName, path string, result *schema.Result) *NucleusError {
	message := fmt.Sprintf("rendered %s from template '%s' is not a valid %s file: %s",
		path, templateName, result.Schema, result)
	guidance := "Check the values you entered. Values are inserted verbatim, so double quotes " +
		"and backslashes in the description or names break the generated JSON."

	return &NucleusError{
		Type:     ErrSchemaViolation,
		Message:  message,
		Guidance: guidance,
	}
}

func NewGenerationError(path string, cause error) *NucleusError {
	message := fmt.Sprintf("failed to write '%s'", path)
	guidance := "Ensure the target directory is writable and the path is not occupied by a file."

	if errors.Is(cause, fs.ErrPermission) {
		guidance = fmt.Sprintf("Permission denied writing '%s'. Check the permissions of the target "+
			"directory and all parent directories.", path)
	} else if errors.Is(cause, fs.ErrExist) || strings.Contains(fmt.Sprint(cause), "not a directory") {
		guidance = fmt.Sprintf("A file is in the way of '%s'. Remove it or generate into another directory.", path)
	}

	return &NucleusError{
		Type:     ErrGenerationFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewOutputError(cause error) *NucleusError {
	return &NucleusError{
		Type:     ErrOutputFailed,
		Message:  "failed to print the summary",
		Guidance: "The datapack was generated; only the report could not be written to stdout.",
		Cause:    cause,
	}
}

func NewValidationError(field string, value interface{}, reason string) *NucleusError {
	message := fmt.Sprintf("validation failed for %s: %v (%s)", field, value, reason)
	guidance := "Check the input value and ensure it meets the required format."

	if value == nil || value == "" {
		switch field {
		case "name":
			guidance = "A datapack name is required in non-interactive mode. Pass it with --name " +
				"or remove --yes to be prompted."
		case "player":
			guidance = "A player name is required in non-interactive mode. Pass it with --player, " +
				"set player_name in the config file or remove --yes."
		case "item":
			guidance = "A display item is required in non-interactive mode. Pass it with --item " +
				"(e.g. --item minecraft:tnt) or set display_item in the config file."
		case "minecraft_version":
			guidance = "Pass a Minecraft version with --mc-version or set minecraft_version in the config file."
		}
	} else {
		switch field {
		case "name":
			guidance = "Use letters, digits and spaces only in the datapack name, e.g. --name \"Explosion Magic\"."
		case "player":
			guidance = "Player names are 3-16 characters of letters, digits and _, e.g. --player Boomber."
		case "item":
			guidance = "Use a lowercase namespaced item ID, e.g. --item minecraft:tnt."
		case "minecraft_version":
			guidance = "Use --mc-version with a release between 1.13 and 1.20.4."
		}
	}

	if field == "request" {
		guidance = "This is an internal error; please report it."
	}

	return &NucleusError{
		Type:     ErrValidationFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    nil,
	}
}

// IsType reports whether err is a NucleusError of the given type
func IsType(err error, errType error) bool {
	var nucleusErr *NucleusError
	if !errors.As(err, &nucleusErr) {
		return false
	}
	return errors.Is(nucleusErr.Type, errType)
}
