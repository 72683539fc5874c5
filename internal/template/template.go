package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathMarker prefixes the first non-blank line of a template, which names the
// file the template renders to (relative to the generation root).
const PathMarker = "#"

// Template is a parsed template: the relative output path and the body that
// is written there.
type Template struct {
	Path    string
	Content string
}

// New creates a template from an already split path and content
func New(path, content string) Template {
	return Template{
		Path:    path,
		Content: content,
	}
}

// FromString applies cfg to raw and parses the result. Substitution happens
// before parsing, so the path header may itself contain placeholders.
func FromString(raw string, cfg Config) (Template, error) {
	return Parse(cfg.Apply(raw))
}

// Parse splits raw template text into its path header and body.
//
// Leading blank lines are skipped. The first remaining line must start with
// PathMarker; the rest of that line, trimmed, is the path. Every following line
// is kept verbatim and terminated with "\n", including the last one.
func Parse(raw string) (Template, error) {
	lines := splitLines(raw)

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start == len(lines) {
		return Template{}, &ParseError{Err: ErrUnexpectedEndOfInput, Line: len(lines)}
	}

	header := strings.TrimSpace(lines[start])
	if !strings.HasPrefix(header, PathMarker) {
		return Template{}, &ParseError{Err: ErrMissingPathMarker, Line: start + 1}
	}

	path := strings.TrimSpace(strings.TrimPrefix(header, PathMarker))
	if path == "" {
		return Template{}, &ParseError{Err: ErrUnexpectedEndOfInput, Line: start + 1}
	}

	var content strings.Builder
	for _, line := range lines[start+1:] {
		content.WriteString(line)
		content.WriteByte('\n')
	}

	return New(path, content.String()), nil
}

// splitLines breaks text on "\n", dropping a trailing "\r" from each line.
// A final newline does not produce an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Target returns the file the template writes to under root
func (t Template) Target(root string) string {
	return filepath.Join(root, filepath.FromSlash(t.Path))
}

// Generate writes the template content to root/Path, creating any missing
// parent directories. An existing file is overwritten in place.
func (t Template) Generate(root string) error {
	target := t.Target(root)

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return &GenerateError{Path: target, Err: err}
	}

	if err := os.WriteFile(target, []byte(t.Content), 0644); err != nil {
		return &GenerateError{Path: target, Err: err}
	}

	return nil
}

// Equal reports whether two templates have the same path and the same content
// once all whitespace is removed.
func (t Template) Equal(other Template) bool {
	return t.Path == other.Path && t.cleanContent() == other.cleanContent()
}

// String renders the template for debugging, with whitespace stripped from content
func (t Template) String() string {
	return fmt.Sprintf("Template{Path: %q, Content: %q}", t.Path, t.cleanContent())
}

func (t Template) cleanContent() string {
	return strings.Join(strings.Fields(t.Content), "")
}
