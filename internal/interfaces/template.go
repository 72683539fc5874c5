package interfaces

import (
	"nucleus-cli/internal/builtin"
	"nucleus-cli/internal/template"
)

// RenderedTemplate is a template after substitution and parsing, ready to be
// written under the datapack root.
type RenderedTemplate struct {
	Name     string
	Template template.Template
}

// TemplateSource provides the raw templates a datapack is generated from
type TemplateSource interface {
	// All returns every template in generation order
	All() ([]builtin.Source, error)
	// Names returns the template names in generation order
	Names() []string
}
