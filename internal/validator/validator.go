// Package validator checks user supplied identifiers before they are
// substituted into templates.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	namespacePattern    = regexp.MustCompile(`^[a-z0-9_.\-:]+$`)
	namePattern         = regexp.MustCompile(`^\w{3,16}$`)
	datapackNamePattern = regexp.MustCompile(`^[\w\d\s]+$`)
)

// Validator checks a single text value
type Validator interface {
	Validate(text string) error
}

// Kind identifies which rule a value failed
type Kind int

const (
	InvalidNamespace Kind = iota
	InvalidName
	InvalidDatapackName
)

// ValidationError reports a value that does not satisfy a validator
type ValidationError struct {
	Kind  Kind
	Value string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case InvalidNamespace:
		return fmt.Sprintf("namespace '%s' must follow this regex: /%s/", e.Value, namespacePattern.String())
	case InvalidName:
		return fmt.Sprintf("name '%s' must be within 3-16 characters and must all be english characters", e.Value)
	case InvalidDatapackName:
		return fmt.Sprintf("datapack name '%s' contains non-english characters or special symbols", e.Value)
	default:
		return fmt.Sprintf("invalid value '%s'", e.Value)
	}
}

// Namespace validates namespaced ids such as "minecraft:tnt"
type Namespace struct{}

func (Namespace) Validate(text string) error {
	if !namespacePattern.MatchString(text) {
		return &ValidationError{Kind: InvalidNamespace, Value: text}
	}
	return nil
}

// Name validates a player name
type Name struct{}

func (Name) Validate(text string) error {
	if !namePattern.MatchString(text) {
		return &ValidationError{Kind: InvalidName, Value: text}
	}
	return nil
}

// DatapackName validates a datapack display name that can be turned into a
// namespace with Namespacify.
type DatapackName struct{}

func (DatapackName) Validate(text string) error {
	if !datapackNamePattern.MatchString(text) {
		return &ValidationError{Kind: InvalidDatapackName, Value: text}
	}
	return nil
}

// Func wraps a plain function as a Validator
type Func func(text string) error

func (f Func) Validate(text string) error {
	return f(text)
}

// Namespacify lowercases input and replaces spaces with underscores.
// Other characters that are invalid in a namespace are left untouched.
func Namespacify(input string) string {
	return strings.ReplaceAll(cases.Lower(language.Und).String(input), " ", "_")
}
