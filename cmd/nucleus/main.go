package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"nucleus-cli/internal/app"
	"nucleus-cli/internal/logging"
	"nucleus-cli/internal/orchestrator"
	"nucleus-cli/internal/packformat"
	"nucleus-cli/pkg/models"
)

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
	goVersion = runtime.Version()
)

var rootCmd = &cobra.Command{
	Use:   "nucleus",
	Short: "Scaffold Minecraft datapacks",
	Long: `Nucleus generates the skeleton of a Minecraft datapack: pack.mcmeta and the
advancements that list the datapack under its author in the advancement screen.

Values can be given as flags, read from a YAML answers file with --values, or
entered interactively. Interactive mode can be controlled via config
(interactive_default), overridden with --interactive or -y.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logging.SetupLogger(verbosity)
	},
}

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a datapack in a new directory",
	Long:  "Create a datapack in a new directory named after the datapack, inside the output directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args, models.ModeNew)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return app.Run(request)
	},
}

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a datapack in the current directory",
	Long:  "Generate the datapack files directly into the output directory (the current directory by default).",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args, models.ModeInit)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return app.Run(request)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in templates",
	Long:  "List the templates rendered into every datapack and the settings file location.",
	RunE: func(cmd *cobra.Command, args []string) error {
		request := models.NewDatapackRequest(models.ModeNew)

		if configPath, err := cmd.Flags().GetString("config"); err == nil {
			request.ConfigPath = configPath
		}

		return app.ListTemplates(request, cmd.OutOrStdout())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with the defaults",
	Long:  "Write a TOML settings file holding the default values to the --config path or ~/.config/nucleus/config.toml.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		request := models.NewDatapackRequest(models.ModeNew)

		if configPath, err := cmd.Flags().GetString("config"); err == nil {
			request.ConfigPath = configPath
		}

		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return fmt.Errorf("invalid force flag: %w", err)
		}

		return app.InitSettings(request, force, cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version information including build version, commit, date, and platform details.",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "nucleus version %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built: %s\n", date)
		fmt.Fprintf(out, "  go version: %s\n", goVersion)
		fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "  minecraft: %s\n", packformat.Supported())
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "replace an existing settings file")

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (default ~/.config/nucleus/config.toml)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")

	for _, cmd := range []*cobra.Command{newCmd, initCmd} {
		addGenerateFlags(cmd)
	}
}

// addGenerateFlags registers the flags shared by new and init
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("name", "d", "", "datapack name")
	cmd.Flags().StringP("desc", "D", "", "datapack description")
	cmd.Flags().StringP("player", "p", "", "player name of the author")
	cmd.Flags().StringP("item", "i", "", "display item ID, e.g. minecraft:tnt")
	cmd.Flags().String("mc-version", "", fmt.Sprintf("target Minecraft version (%s)", packformat.Supported()))
	cmd.Flags().String("values", "", "YAML file with answers")
	cmd.Flags().StringP("output", "o", "", "output directory (default current directory)")
	cmd.Flags().Bool("dry-run", false, "show the files that would be written without writing them")
	cmd.Flags().BoolP("yes", "y", false, "noninteractive mode - use defaults without prompts")
	cmd.Flags().Bool("interactive", false, "force interactive mode (overrides config default)")
}

// buildRequestFromFlags constructs a DatapackRequest from command flags and arguments
func buildRequestFromFlags(cmd *cobra.Command, args []string, mode models.Mode) (*models.DatapackRequest, error) {
	request := models.NewDatapackRequest(mode)

	var err error

	if request.ConfigPath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}

	if request.ForceNonInteractive, err = cmd.Flags().GetBool("yes"); err != nil {
		return nil, fmt.Errorf("invalid yes flag: %w", err)
	}

	if request.ForceInteractive, err = cmd.Flags().GetBool("interactive"); err != nil {
		return nil, fmt.Errorf("invalid interactive flag: %w", err)
	}

	if request.ForceInteractive && request.ForceNonInteractive {
		return nil, fmt.Errorf("cannot use both --interactive and --yes flags")
	}

	stringFlags := []struct {
		name  string
		field *string
	}{
		{"name", &request.Name},
		{"desc", &request.Description},
		{"player", &request.PlayerName},
		{"item", &request.DisplayItem},
		{"mc-version", &request.MinecraftVersion},
		{"values", &request.ValuesFile},
		{"output", &request.OutputDir},
	}

	for _, flag := range stringFlags {
		if *flag.field, err = cmd.Flags().GetString(flag.name); err != nil {
			return nil, fmt.Errorf("invalid %s flag: %w", flag.name, err)
		}
	}

	request.Name = strings.TrimSpace(request.Name)
	if len(args) > 0 {
		if request.Name != "" && request.Name != strings.TrimSpace(args[0]) {
			return nil, fmt.Errorf("datapack name given twice: %q and --name %q", args[0], request.Name)
		}
		request.Name = strings.TrimSpace(args[0])
	}

	if request.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return nil, fmt.Errorf("invalid dry-run flag: %w", err)
	}

	return request, nil
}

func main() {
	// Disable usage on error to show only our custom error messages
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err and, for input problems, where to find the flags
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	if orchestrator.IsType(err, orchestrator.ErrValidationFailed) {
		fmt.Fprintln(w, "Run 'nucleus new --help' to see the available flags.")
	}
}
