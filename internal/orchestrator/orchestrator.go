package orchestrator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"nucleus-cli/internal/builtin"
	"nucleus-cli/internal/config"
	"nucleus-cli/internal/interfaces"
	"nucleus-cli/internal/logging"
	"nucleus-cli/internal/packformat"
	"nucleus-cli/internal/schema"
	"nucleus-cli/internal/template"
	"nucleus-cli/internal/validator"
	"nucleus-cli/pkg/models"
)

// Placeholder tokens recognized by the built-in templates
const (
	KeyDatapackName = "<datapack_name>"
	KeyDatapack     = "<datapack>"
	KeyDescription  = "<description>"
	KeyNamespace    = "<namespace>"
	KeyPlayerName   = "<player_name>"
	KeyDisplayItem  = "<display_item>"
	KeyPackFormat   = "<pack_format>"
)

// flagSetter is implemented by config managers that accept flag overrides
type flagSetter interface {
	SetFlag(key string, value interface{})
}

// Orchestrator coordinates all components to generate a datapack
type Orchestrator struct {
	configManager interfaces.ConfigManager
	source        interfaces.TemplateSource
	outputHandler interfaces.OutputHandler
	logger        zerolog.Logger
}

// New creates a new orchestrator with all required components
func New() *Orchestrator {
	return NewWithComponents(config.NewManager(), builtin.Embedded{}, NewOutputHandler(os.Stdout))
}

// NewWithComponents creates an orchestrator from explicit components
func NewWithComponents(configManager interfaces.ConfigManager, source interfaces.TemplateSource, outputHandler interfaces.OutputHandler) *Orchestrator {
	return &Orchestrator{
		configManager: configManager,
		source:        source,
		outputHandler: outputHandler,
		logger:        logging.GetLogger("orchestrator"),
	}
}

// LoadConfiguration loads and resolves settings with precedence. Values already
// on the request act as flag overrides, so a bad settings value that the
// request replaces is never validated.
func (o *Orchestrator) LoadConfiguration(request *models.DatapackRequest) (*interfaces.Config, error) {
	configPath := ""
	if request != nil {
		configPath = request.ConfigPath
	}

	if _, err := o.configManager.Load(configPath); err != nil {
		return nil, NewConfigurationError("failed to load configuration", err)
	}

	if setter, ok := o.configManager.(flagSetter); ok && request != nil {
		setter.SetFlag("description", request.Description)
		setter.SetFlag("player_name", request.PlayerName)
		setter.SetFlag("display_item", request.DisplayItem)
		setter.SetFlag("minecraft_version", request.MinecraftVersion)
	}

	cfg, err := o.configManager.Resolve()
	if err != nil {
		return nil, NewConfigurationError("failed to resolve configuration", err)
	}

	if err := o.configManager.Validate(cfg); err != nil {
		return nil, NewConfigurationError("invalid configuration", err)
	}

	o.logger.Debug().
		Str("minecraft_version", cfg.MinecraftVersion).
		Bool("interactive_default", cfg.InteractiveDefault).
		Msg("Configuration loaded")

	return cfg, nil
}

// ApplyDefaults fills request fields left empty with the configured defaults
func (o *Orchestrator) ApplyDefaults(request *models.DatapackRequest, cfg *interfaces.Config) {
	if request == nil || cfg == nil {
		return
	}

	if request.Description == "" {
		request.Description = cfg.Description
	}
	if request.PlayerName == "" {
		request.PlayerName = cfg.PlayerName
	}
	if request.DisplayItem == "" {
		request.DisplayItem = cfg.DisplayItem
	}
	if request.MinecraftVersion == "" {
		request.MinecraftVersion = cfg.MinecraftVersion
	}
}

// ValidateRequest checks that every value needed for generation is present and well formed
func (o *Orchestrator) ValidateRequest(request *models.DatapackRequest) error {
	if request == nil {
		return NewValidationError("request", nil, "request cannot be nil")
	}

	if request.Mode != models.ModeNew && request.Mode != models.ModeInit {
		return NewValidationError("mode", request.Mode, "must be 'new' or 'init'")
	}

	checks := []struct {
		field     string
		value     string
		validator validator.Validator
	}{
		{"name", request.Name, validator.DatapackName{}},
		{"player", request.PlayerName, validator.Name{}},
		{"item", request.DisplayItem, validator.Namespace{}},
		{"minecraft_version", request.MinecraftVersion, validator.Func(func(version string) error {
			_, err := packformat.Resolve(version)
			return err
		})},
	}

	for _, check := range checks {
		if check.value == "" {
			return NewValidationError(check.field, "", "value is required")
		}
		if err := check.validator.Validate(check.value); err != nil {
			validationErr := NewValidationError(check.field, check.value, err.Error())
			validationErr.Cause = err
			return validationErr
		}
	}

	return nil
}

// BuildConfig builds the placeholder substitutions for a validated request
func (o *Orchestrator) BuildConfig(request *models.DatapackRequest) (template.Config, error) {
	packFormat, err := packformat.Resolve(request.MinecraftVersion)
	if err != nil {
		return template.Config{}, fmt.Errorf("failed to resolve pack format: %w", err)
	}

	return template.NewConfig().
		Insert(KeyDatapackName, request.Name).
		Insert(KeyDatapack, validator.Namespacify(request.Name)).
		Insert(KeyDescription, request.Description).
		Insert(KeyNamespace, validator.Namespacify(request.PlayerName)).
		Insert(KeyPlayerName, request.PlayerName).
		Insert(KeyDisplayItem, request.DisplayItem).
		Insert(KeyPackFormat, fmt.Sprint(packFormat)), nil
}

// Render substitutes, parses and schema checks every template. Nothing is
// written, so a failure here leaves the filesystem untouched.
func (o *Orchestrator) Render(cfg template.Config) ([]interfaces.RenderedTemplate, error) {
	done := logging.LogOperationStart(o.logger, "render")
	defer done()

	o.logger.Debug().
		Int("count", cfg.Len()).
		Strs("placeholders", cfg.Keys()).
		Msg("Substituting placeholders")

	sources, err := o.source.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	rendered := make([]interfaces.RenderedTemplate, 0, len(sources))
	for _, source := range sources {
		tmpl, err := template.FromString(source.Raw, cfg)
		if err != nil {
			return nil, NewTemplateError(source.Name, err)
		}

		result, err := schema.Check(tmpl.Path, tmpl.Content)
		if err != nil {
			return nil, NewTemplateError(source.Name, err)
		}
		if !result.Valid {
			return nil, NewSchemaError(source.Name, tmpl.Path, result)
		}

		o.logger.Debug().
			Str("template", source.Name).
			Str("path", tmpl.Path).
			Str("schema", result.Schema).
			Msg("Template rendered")

		rendered = append(rendered, interfaces.RenderedTemplate{
			Name:     source.Name,
			Template: tmpl,
		})
	}

	return rendered, nil
}

// TargetRoot returns the directory the datapack is generated into
func (o *Orchestrator) TargetRoot(request *models.DatapackRequest) string {
	base := request.OutputDir
	if base == "" {
		base = "."
	}

	if request.Mode == models.ModeNew {
		return filepath.Join(base, request.Name)
	}
	return base
}

// HasExistingContent reports whether root is a directory that already has entries
func (o *Orchestrator) HasExistingContent(root string) bool {
	entries, err := os.ReadDir(root)
	return err == nil && len(entries) > 0
}

// Generate writes the rendered templates under root in order and stops at the
// first failure; files written before the failure are left in place.
func (o *Orchestrator) Generate(rendered []interfaces.RenderedTemplate, root string, dryRun bool) (*interfaces.Report, error) {
	done := logging.LogOperationStart(o.logger, "generate")
	defer done()

	report := &interfaces.Report{
		Root:   root,
		DryRun: dryRun,
	}

	for _, r := range rendered {
		if !dryRun {
			if err := r.Template.Generate(root); err != nil {
				var genErr *template.GenerateError
				if errors.As(err, &genErr) {
					return report, NewGenerationError(genErr.Path, genErr.Err)
				}
				return report, NewGenerationError(r.Template.Target(root), err)
			}
		}

		o.logger.Info().
			Str("template", r.Name).
			Str("path", r.Template.Target(root)).
			Bool("dry_run", dryRun).
			Msg("File written")

		report.Files = append(report.Files, r.Template.Path)
	}

	return report, nil
}

// WriteSummary reports the generation result to the user
func (o *Orchestrator) WriteSummary(report *interfaces.Report) error {
	if err := o.outputHandler.WriteSummary(*report); err != nil {
		return NewOutputError(err)
	}
	return nil
}

// ListTemplates prints the names of the available templates
func (o *Orchestrator) ListTemplates() error {
	if err := o.outputHandler.WriteTemplateList(o.source.Names()); err != nil {
		return NewOutputError(err)
	}
	return nil
}
