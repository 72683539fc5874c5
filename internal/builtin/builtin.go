// Package builtin embeds the templates nucleus renders into a new datapack.
//
// Each template starts with a "# <relative path>" header followed by the file
// body. Both may contain <token> placeholders.
package builtin

import (
	"embed"
	"fmt"
)

//go:embed files/*.template
var files embed.FS

// order is the generation order; later templates overwrite earlier ones on a
// path collision.
var order = []string{"datapack", "namespace", "pack", "root"}

// Source is one raw, unsubstituted template
type Source struct {
	Name string
	Raw  string
}

// Names returns the built-in template names in generation order
func Names() []string {
	names := make([]string, len(order))
	copy(names, order)
	return names
}

// Get returns a single built-in template by name
func Get(name string) (Source, error) {
	data, err := files.ReadFile("files/" + name + ".template")
	if err != nil {
		return Source{}, fmt.Errorf("template not found: %s", name)
	}
	return Source{Name: name, Raw: string(data)}, nil
}

// All returns every built-in template in generation order
func All() ([]Source, error) {
	sources := make([]Source, 0, len(order))
	for _, name := range order {
		source, err := Get(name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// Embedded is the TemplateSource backed by the templates compiled into the binary
type Embedded struct{}

// All returns every built-in template in generation order
func (Embedded) All() ([]Source, error) {
	return All()
}

// Names returns the built-in template names in generation order
func (Embedded) Names() []string {
	return Names()
}
