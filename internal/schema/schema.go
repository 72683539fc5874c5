// Package schema checks rendered datapack JSON files against embedded JSON
// schemas. Placeholder values are substituted without escaping, so a value
// such as a description containing a double quote can produce a file the game
// refuses to load; Check reports that before anything is written.
package schema

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schemas/*.schema.json
var schemaFiles embed.FS

// Schema names
const (
	Pack        = "pack"
	Advancement = "advancement"
)

var (
	compiled    map[string]*jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
	printer     = message.NewPrinter(language.English)
)

// Result contains the outcome of a schema check
type Result struct {
	Schema string
	Valid  bool
	Issues []Issue
}

// Issue is a single schema violation
type Issue struct {
	Path    string // instance location, e.g. "/pack/pack_format"
	Message string
	Keyword string
}

func (r *Result) String() string {
	if r.Valid {
		return "valid"
	}
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Path == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func getSchemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		schemas := make(map[string]*jsonschema.Schema)

		for _, name := range []string{Pack, Advancement} {
			file := name + ".schema.json"
			data, err := schemaFiles.ReadFile("schemas/" + file)
			if err != nil {
				compileErr = fmt.Errorf("reading schema %s: %w", file, err)
				return
			}

			doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
			if err != nil {
				compileErr = fmt.Errorf("unmarshaling schema %s: %w", file, err)
				return
			}
			if err := c.AddResource(file, doc); err != nil {
				compileErr = fmt.Errorf("adding schema resource %s: %w", file, err)
				return
			}

			sch, err := c.Compile(file)
			if err != nil {
				compileErr = fmt.Errorf("compiling schema %s: %w", file, err)
				return
			}
			schemas[name] = sch
		}

		compiled = schemas
	})
	return compiled, compileErr
}

// For returns the schema name that applies to a datapack relative path, or ""
// when the file is not checked.
func For(relPath string) string {
	relPath = path.Clean(strings.ReplaceAll(relPath, "\\", "/"))

	if relPath == "pack.mcmeta" {
		return Pack
	}

	parts := strings.Split(relPath, "/")
	if len(parts) >= 4 && parts[0] == "data" && parts[2] == "advancements" && path.Ext(relPath) == ".json" {
		return Advancement
	}
	return ""
}

// Check validates content rendered for relPath. Files without a schema are
// reported valid. The error return is reserved for schema compilation failures.
func Check(relPath, content string) (*Result, error) {
	name := For(relPath)
	if name == "" {
		return &Result{Valid: true}, nil
	}

	schemas, err := getSchemas()
	if err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(content))
	if err != nil {
		return &Result{
			Schema: name,
			Valid:  false,
			Issues: []Issue{{Message: fmt.Sprintf("invalid JSON: %v", err)}},
		}, nil
	}

	err = schemas[name].Validate(inst)
	if err == nil {
		return &Result{Schema: name, Valid: true}, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &Result{
		Schema: name,
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// extractIssues flattens the validation error tree into its leaf errors
func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectIssues(ve, &issues)

	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	return dedupe(issues)
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	location := ""
	if len(ve.InstanceLocation) > 0 {
		location = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	keyword := ""
	msg := ""
	if ve.ErrorKind != nil {
		if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
			keyword = kwPath[len(kwPath)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}

	// Container keywords only repeat what their causes say.
	if keyword == "allOf" || keyword == "$ref" || keyword == "" {
		return
	}

	*issues = append(*issues, Issue{
		Path:    location,
		Message: msg,
		Keyword: keyword,
	})
}

func dedupe(issues []Issue) []Issue {
	seen := make(map[string]bool)
	var result []Issue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
