package interactive

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
	"nucleus-cli/internal/interfaces"
	"nucleus-cli/internal/logging"
	"nucleus-cli/internal/validator"
	"nucleus-cli/pkg/models"
)

// Asker abstracts the terminal prompts so the collection flow can be tested
// without a real terminal.
type Asker interface {
	Input(message, help, defaultValue string, v validator.Validator) (string, error)
	Confirm(message, help string, defaultValue bool) (bool, error)
}

// Prompter handles interactive user input collection
type Prompter struct {
	asker      Asker
	isTerminal func() bool
}

// NewPrompter creates a new interactive prompter backed by survey
func NewPrompter() *Prompter {
	return NewPrompterWithAsker(surveyAsker{}, stdinIsTerminal)
}

// NewPrompterWithAsker creates a prompter with a custom Asker and terminal check
func NewPrompterWithAsker(asker Asker, isTerminal func() bool) *Prompter {
	return &Prompter{
		asker:      asker,
		isTerminal: isTerminal,
	}
}

// CollectMissingInputs prompts the user for any request field that was not
// provided by flags or a values file. Settings supply the prompt defaults.
func (p *Prompter) CollectMissingInputs(request *models.DatapackRequest, defaults *interfaces.Config) error {
	if !request.Interactive {
		return nil // Skip interactive prompts in noninteractive mode
	}

	logger := logging.GetLogger("interactive")
	if !p.isTerminal() {
		logger.Debug().Msg("stdin is not a terminal, skipping prompts")
		return nil
	}

	if defaults == nil {
		defaults = &interfaces.Config{}
	}

	if request.Name == "" {
		name, err := p.asker.Input("Datapack name", "Display name of the datapack; it is also turned into the datapack namespace", "", validator.DatapackName{})
		if err != nil {
			return fmt.Errorf("failed to collect datapack name: %w", err)
		}
		request.Name = strings.TrimSpace(name)
	}

	if request.Description == "" {
		description, err := p.asker.Input("Description", "Shown in the datapack list and the advancement tooltip", defaults.Description, nil)
		if err != nil {
			return fmt.Errorf("failed to collect description: %w", err)
		}
		request.Description = description
	}

	if request.PlayerName == "" {
		player, err := p.asker.Input("Player name", "Your Minecraft name; it becomes the author namespace", defaults.PlayerName, validator.Name{})
		if err != nil {
			return fmt.Errorf("failed to collect player name: %w", err)
		}
		request.PlayerName = strings.TrimSpace(player)
	}

	if request.DisplayItem == "" {
		item, err := p.asker.Input("Display Item ID", "Item shown as the datapack advancement icon, e.g. minecraft:tnt", defaults.DisplayItem, validator.Namespace{})
		if err != nil {
			return fmt.Errorf("failed to collect display item: %w", err)
		}
		request.DisplayItem = strings.TrimSpace(item)
	}

	logger.Debug().
		Str("name", request.Name).
		Str("player", request.PlayerName).
		Str("item", request.DisplayItem).
		Msg("Inputs collected")

	return nil
}

// ConfirmOverwrite asks the user if generation may write into a directory
// that already has content. Non-interactive requests always proceed.
func (p *Prompter) ConfirmOverwrite(request *models.DatapackRequest, root string) (bool, error) {
	if !request.Interactive || !p.isTerminal() {
		return true, nil
	}

	return p.asker.Confirm(
		fmt.Sprintf("Directory %s is not empty. Existing datapack files will be overwritten. Continue?", root),
		"Only the generated files are replaced; other files are left alone",
		false,
	)
}

// SurveyValidator adapts a Validator to survey's validator signature
func SurveyValidator(v validator.Validator) survey.Validator {
	return func(ans interface{}) error {
		text, ok := ans.(string)
		if !ok {
			return fmt.Errorf("expected text input, got %T", ans)
		}
		return v.Validate(strings.TrimSpace(text))
	}
}

type surveyAsker struct{}

func (surveyAsker) Input(message, help, defaultValue string, v validator.Validator) (string, error) {
	prompt := &survey.Input{
		Message: message + ":",
		Help:    help,
		Default: defaultValue,
	}

	var opts []survey.AskOpt
	if v != nil {
		opts = append(opts, survey.WithValidator(survey.Required), survey.WithValidator(SurveyValidator(v)))
	}

	var answer string
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func (surveyAsker) Confirm(message, help string, defaultValue bool) (bool, error) {
	prompt := &survey.Confirm{
		Message: message,
		Help:    help,
		Default: defaultValue,
	}

	var result bool
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
