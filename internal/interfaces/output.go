package interfaces

// Report describes the outcome of a generation run
type Report struct {
	Root   string
	Files  []string
	DryRun bool
}

// OutputHandler presents generation results to the user
type OutputHandler interface {
	// WriteSummary prints the files that were (or would be) generated
	WriteSummary(report Report) error

	// WriteTemplateList prints the names of the available templates
	WriteTemplateList(names []string) error
}
