package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nucleus-cli/internal/builtin"
	"nucleus-cli/internal/config"
	"nucleus-cli/internal/interactive"
	"nucleus-cli/internal/interfaces"
	"nucleus-cli/internal/logging"
	"nucleus-cli/internal/orchestrator"
	"nucleus-cli/pkg/models"
)

// ErrAborted is returned when the user declines to write into a non-empty directory
var ErrAborted = errors.New("aborted, nothing was written")

// InputCollector gathers missing request values from the user
type InputCollector interface {
	CollectMissingInputs(request *models.DatapackRequest, defaults *interfaces.Config) error
	ConfirmOverwrite(request *models.DatapackRequest, root string) (bool, error)
}

// Run executes the main application logic
func Run(request *models.DatapackRequest) error {
	return RunWith(orchestrator.New(), interactive.NewPrompter(), request)
}

// RunWith generates a datapack using the given components
func RunWith(orch *orchestrator.Orchestrator, prompter InputCollector, request *models.DatapackRequest) error {
	logger := logging.GetLogger("app")

	// Values from an answers file fill whatever flags left empty
	if request.ValuesFile != "" {
		values, err := config.LoadValues(request.ValuesFile)
		if err != nil {
			return fmt.Errorf("values error: %w", err)
		}
		values.ApplyTo(request)
	}

	cfg, err := orch.LoadConfiguration(request)
	if err != nil {
		return err
	}

	resolveInteractiveMode(request, cfg)

	if err := prompter.CollectMissingInputs(request, cfg); err != nil {
		return fmt.Errorf("failed to collect inputs: %w", err)
	}

	orch.ApplyDefaults(request, cfg)

	if err := orch.ValidateRequest(request); err != nil {
		return err
	}

	substitutions, err := orch.BuildConfig(request)
	if err != nil {
		return err
	}

	rendered, err := orch.Render(substitutions)
	if err != nil {
		return err
	}

	root := orch.TargetRoot(request)
	if !request.DryRun && orch.HasExistingContent(root) {
		ok, err := prompter.ConfirmOverwrite(request, root)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			return ErrAborted
		}
	}

	logger.Debug().
		Str("mode", string(request.Mode)).
		Str("root", root).
		Bool("dry_run", request.DryRun).
		Msg("Generating datapack")

	report, err := orch.Generate(rendered, root, request.DryRun)
	if err != nil {
		return err
	}

	return orch.WriteSummary(report)
}

// resolveInteractiveMode determines the final interactive mode based on flags and config
func resolveInteractiveMode(request *models.DatapackRequest, cfg *interfaces.Config) {
	// Priority: explicit flags > config default
	if request.ForceInteractive {
		request.Interactive = true
	} else if request.ForceNonInteractive {
		request.Interactive = false
	} else {
		request.Interactive = cfg.InteractiveDefault
	}
}

// ListTemplates lists the built-in templates and where settings are read from
func ListTemplates(request *models.DatapackRequest, out io.Writer) error {
	settingsPath := request.ConfigPath
	if settingsPath == "" {
		settingsPath = config.DefaultPath()
	}
	fmt.Fprintf(out, "Settings file: %s\n\n", contractPath(settingsPath))

	return orchestrator.NewWithComponents(config.NewManager(), builtin.Embedded{}, orchestrator.NewOutputHandler(out)).ListTemplates()
}

// contractPath converts a full path back to use ~ for the home directory
func contractPath(path string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	homeDirWithSlash := homeDir + string(filepath.Separator)
	pathWithSlash := path + string(filepath.Separator)

	if strings.HasPrefix(pathWithSlash, homeDirWithSlash) {
		relativePath := path[len(homeDir):]
		if relativePath == "" {
			return "~"
		}
		return "~" + relativePath
	}

	return path
}

// InitSettings writes a settings file holding the defaults
func InitSettings(request *models.DatapackRequest, force bool, out io.Writer) error {
	path, err := config.WriteSettings(request.ConfigPath, config.Defaults(), force)
	if err != nil {
		return orchestrator.NewConfigurationError("failed to write settings", err)
	}

	fmt.Fprintf(out, "Settings written to %s\n", contractPath(path))
	return nil
}
