package models

// Mode selects where a datapack is generated
type Mode string

const (
	// ModeNew creates the datapack in a new directory named after it
	ModeNew Mode = "new"
	// ModeInit generates the datapack into the current directory
	ModeInit Mode = "init"
)

// DatapackRequest represents the main application state for a generation request
type DatapackRequest struct {
	Mode             Mode
	Name             string
	Description      string
	PlayerName       string
	DisplayItem      string
	MinecraftVersion string
	ConfigPath       string
	ValuesFile       string
	OutputDir        string
	DryRun           bool

	Interactive         bool
	ForceInteractive    bool
	ForceNonInteractive bool
}

// NewDatapackRequest creates a request for the given mode
func NewDatapackRequest(mode Mode) *DatapackRequest {
	return &DatapackRequest{
		Mode:        mode,
		Interactive: true,
	}
}
