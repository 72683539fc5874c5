package orchestrator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"nucleus-cli/internal/builtin"
	"nucleus-cli/internal/config"
	"nucleus-cli/internal/interfaces"
	"nucleus-cli/internal/template"
	"nucleus-cli/pkg/models"
)

type staticSource struct {
	sources []builtin.Source
	err     error
}

func (s staticSource) All() ([]builtin.Source, error) {
	return s.sources, s.err
}

func (s staticSource) Names() []string {
	names := make([]string, 0, len(s.sources))
	for _, source := range s.sources {
		names = append(names, source.Name)
	}
	return names
}

func newTestOrchestrator(source interfaces.TemplateSource) (*Orchestrator, *bytes.Buffer) {
	var out bytes.Buffer
	return NewWithComponents(config.NewManager(), source, NewOutputHandler(&out)), &out
}

func validRequest(mode models.Mode) *models.DatapackRequest {
	request := models.NewDatapackRequest(mode)
	request.Name = "Explosion Magic"
	request.Description = "Explosion!"
	request.PlayerName = "Boomber"
	request.DisplayItem = "minecraft:tnt"
	request.MinecraftVersion = "1.15"
	return request
}

func TestOrchestrator_ValidateRequest(t *testing.T) {
	orch, _ := newTestOrchestrator(builtin.Embedded{})

	tests := []struct {
		name    string
		modify  func(r *models.DatapackRequest)
		nilReq  bool
		wantErr bool
	}{
		{name: "nil request", nilReq: true, wantErr: true},
		{name: "valid request", modify: func(r *models.DatapackRequest) {}},
		{name: "unknown mode", modify: func(r *models.DatapackRequest) { r.Mode = "update" }, wantErr: true},
		{name: "missing name", modify: func(r *models.DatapackRequest) { r.Name = "" }, wantErr: true},
		{name: "name with punctuation", modify: func(r *models.DatapackRequest) { r.Name = "Boom!" }, wantErr: true},
		{name: "missing player", modify: func(r *models.DatapackRequest) { r.PlayerName = "" }, wantErr: true},
		{name: "short player", modify: func(r *models.DatapackRequest) { r.PlayerName = "ab" }, wantErr: true},
		{name: "missing item", modify: func(r *models.DatapackRequest) { r.DisplayItem = "" }, wantErr: true},
		{name: "uppercase item", modify: func(r *models.DatapackRequest) { r.DisplayItem = "minecraft:TNT" }, wantErr: true},
		{name: "unsupported version", modify: func(r *models.DatapackRequest) { r.MinecraftVersion = "1.12" }, wantErr: true},
		{name: "empty description is fine", modify: func(r *models.DatapackRequest) { r.Description = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var request *models.DatapackRequest
			if !tt.nilReq {
				request = validRequest(models.ModeNew)
				tt.modify(request)
			}

			err := orch.ValidateRequest(request)

			if !tt.wantErr {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			var nucleusErr *NucleusError
			if !errors.As(err, &nucleusErr) {
				t.Fatalf("Expected NucleusError, got %T", err)
			}
			if !errors.Is(nucleusErr.Type, ErrValidationFailed) {
				t.Errorf("Expected error type %v, got %v", ErrValidationFailed, nucleusErr.Type)
			}
			if nucleusErr.Guidance == "" {
				t.Errorf("Expected error to have guidance, got empty string")
			}
		})
	}
}

func TestNucleusError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *NucleusError
		wantText string
	}{
		{
			name: "error with guidance",
			err: &NucleusError{
				Type:     ErrValidationFailed,
				Message:  "test message",
				Guidance: "test guidance",
			},
			wantText: "validation error: test message\n\nSuggestion: test guidance",
		},
		{
			name: "error without guidance",
			err: &NucleusError{
				Type:    ErrConfigurationInvalid,
				Message: "config error",
			},
			wantText: "configuration error: config error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.wantText {
				t.Errorf("NucleusError.Error() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestNewConfigurationError(t *testing.T) {
	cause := errors.New("file not found")
	err := NewConfigurationError("config file missing", cause)

	if !errors.Is(err.Type, ErrConfigurationInvalid) {
		t.Errorf("Expected error type %v, got %v", ErrConfigurationInvalid, err.Type)
	}

	if !strings.Contains(err.Guidance, "configuration file") {
		t.Errorf("Expected guidance to mention configuration file, got: %s", err.Guidance)
	}

	if !errors.Is(err, cause) {
		t.Errorf("Expected error to wrap cause")
	}
}

func TestNewTemplateError_Guidance(t *testing.T) {
	err := NewTemplateError("broken", &template.ParseError{Err: template.ErrMissingPathMarker, Line: 1})

	if !errors.Is(err, template.ErrMissingPathMarker) {
		t.Errorf("Expected error to wrap ErrMissingPathMarker")
	}
	if !strings.Contains(err.Guidance, "path header") {
		t.Errorf("Expected guidance about the path header, got: %s", err.Guidance)
	}
}

func TestNewValidationError_Guidance(t *testing.T) {
	tests := []struct {
		field    string
		value    interface{}
		contains string
		excludes string
	}{
		{"name", "", "is required", ""},
		{"name", "Boom!", "letters, digits and spaces", "is required"},
		{"player", "", "is required", ""},
		{"player", "x", "3-16 characters", "is required"},
		{"item", "", "is required", ""},
		{"item", "minecraft:TNT", "lowercase namespaced", "is required"},
		{"minecraft_version", "1.2", "1.13 and 1.20.4", "is required"},
		{"request", nil, "internal error", ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%v", tt.field, tt.value), func(t *testing.T) {
			err := NewValidationError(tt.field, tt.value, "reason")

			if !strings.Contains(err.Guidance, tt.contains) {
				t.Errorf("guidance %q does not contain %q", err.Guidance, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(err.Guidance, tt.excludes) {
				t.Errorf("guidance %q should not contain %q", err.Guidance, tt.excludes)
			}
		})
	}
}

func TestNewConfigurationError_FieldGuidance(t *testing.T) {
	tests := []struct {
		cause    string
		contains string
	}{
		{"invalid player_name: bad", "--player"},
		{"invalid display_item: bad", "--item"},
		{"invalid minecraft_version: bad", "--mc-version"},
	}

	for _, tt := range tests {
		err := NewConfigurationError("invalid configuration", errors.New(tt.cause))
		if !strings.Contains(err.Guidance, tt.contains) {
			t.Errorf("cause %q: guidance %q does not mention %q", tt.cause, err.Guidance, tt.contains)
		}
	}
}

func TestIsType(t *testing.T) {
	err := NewGenerationError("/tmp/x", errors.New("boom"))

	if !IsType(err, ErrGenerationFailed) {
		t.Error("IsType() = false, want true")
	}
	if IsType(err, ErrTemplateInvalid) {
		t.Error("IsType() matched the wrong type")
	}
	if IsType(errors.New("plain"), ErrGenerationFailed) {
		t.Error("IsType() matched a plain error")
	}
}

func TestOrchestrator_LoadConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "description = \"From file\"\nplayer_name = \"Boomber\"\nminecraft_version = \"1.16.5\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	orch, _ := newTestOrchestrator(builtin.Embedded{})

	request := models.NewDatapackRequest(models.ModeNew)
	request.ConfigPath = path
	request.MinecraftVersion = "1.17"

	cfg, err := orch.LoadConfiguration(request)
	if err != nil {
		t.Fatalf("LoadConfiguration() failed: %v", err)
	}

	if cfg.Description != "From file" || cfg.PlayerName != "Boomber" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.MinecraftVersion != "1.17" {
		t.Errorf("MinecraftVersion = %q, flag override should win", cfg.MinecraftVersion)
	}
}

func TestOrchestrator_LoadConfigurationInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("minecraft_version = \"1.2\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	orch, _ := newTestOrchestrator(builtin.Embedded{})
	request := models.NewDatapackRequest(models.ModeNew)
	request.ConfigPath = path

	_, err := orch.LoadConfiguration(request)
	if !IsType(err, ErrConfigurationInvalid) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestOrchestrator_LoadConfigurationRequestOverridesBadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "player_name = \"x\"\ndisplay_item = \"Not An Item\"\nminecraft_version = \"1.2\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	orch, _ := newTestOrchestrator(builtin.Embedded{})
	request := validRequest(models.ModeNew)
	request.ConfigPath = path

	cfg, err := orch.LoadConfiguration(request)
	if err != nil {
		t.Fatalf("LoadConfiguration() failed: %v", err)
	}
	if cfg.PlayerName != "Boomber" || cfg.DisplayItem != "minecraft:tnt" || cfg.MinecraftVersion != "1.15" {
		t.Errorf("request values should win over settings: %+v", cfg)
	}

	request.PlayerName = ""
	_, err = orch.LoadConfiguration(request)
	if !IsType(err, ErrConfigurationInvalid) {
		t.Fatalf("expected configuration error once the request no longer overrides player_name, got %v", err)
	}
	var nucleusErr *NucleusError
	if errors.As(err, &nucleusErr) && !strings.Contains(nucleusErr.Guidance, "--player") {
		t.Errorf("guidance should point at player_name, got: %s", nucleusErr.Guidance)
	}
}

func TestOrchestrator_ApplyDefaults(t *testing.T) {
	orch, _ := newTestOrchestrator(builtin.Embedded{})

	request := models.NewDatapackRequest(models.ModeNew)
	request.PlayerName = "Boomber"

	orch.ApplyDefaults(request, &interfaces.Config{
		Description:      "My amazing datapack",
		PlayerName:       "Someone",
		DisplayItem:      "minecraft:stone",
		MinecraftVersion: "1.15",
	})

	if request.Description != "My amazing datapack" || request.DisplayItem != "minecraft:stone" || request.MinecraftVersion != "1.15" {
		t.Errorf("defaults not applied: %+v", request)
	}
	if request.PlayerName != "Boomber" {
		t.Errorf("PlayerName = %q, provided value must win", request.PlayerName)
	}
}

func TestOrchestrator_BuildConfig(t *testing.T) {
	orch, _ := newTestOrchestrator(builtin.Embedded{})

	cfg, err := orch.BuildConfig(validRequest(models.ModeNew))
	if err != nil {
		t.Fatalf("BuildConfig() failed: %v", err)
	}

	expected := map[string]string{
		KeyDatapackName: "Explosion Magic",
		KeyDatapack:     "explosion_magic",
		KeyDescription:  "Explosion!",
		KeyNamespace:    "boomber",
		KeyPlayerName:   "Boomber",
		KeyDisplayItem:  "minecraft:tnt",
		KeyPackFormat:   "5",
	}

	got := make(map[string]string)
	for _, key := range cfg.Keys() {
		got[key] = cfg.Apply(key)
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("BuildConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_Render(t *testing.T) {
	orch, _ := newTestOrchestrator(builtin.Embedded{})

	cfg, err := orch.BuildConfig(validRequest(models.ModeNew))
	if err != nil {
		t.Fatal(err)
	}

	rendered, err := orch.Render(cfg)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	var paths []string
	for _, r := range rendered {
		paths = append(paths, r.Template.Path)
	}

	expected := []string{
		"data/boomber/advancements/explosion_magic.json",
		"data/global/advancements/boomber.json",
		"pack.mcmeta",
		"data/global/advancements/root.json",
	}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Errorf("rendered paths mismatch (-want +got):\n%s", diff)
	}

	pack := rendered[2].Template.Content
	if !strings.Contains(pack, `"pack_format": 5`) || !strings.Contains(pack, `"description": "Explosion!"`) {
		t.Errorf("unexpected pack.mcmeta content:\n%s", pack)
	}
}

func TestOrchestrator_RenderRejectsBrokenJSON(t *testing.T) {
	orch, _ := newTestOrchestrator(builtin.Embedded{})

	request := validRequest(models.ModeNew)
	request.Description = `Say "boom"`

	cfg, err := orch.BuildConfig(request)
	if err != nil {
		t.Fatal(err)
	}

	_, err = orch.Render(cfg)
	if !IsType(err, ErrSchemaViolation) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestOrchestrator_RenderBadSource(t *testing.T) {
	tests := []struct {
		name    string
		source  staticSource
		errType error
	}{
		{
			name:    "missing path marker",
			source:  staticSource{sources: []builtin.Source{{Name: "broken", Raw: "no header\n{}\n"}}},
			errType: ErrTemplateInvalid,
		},
		{
			name:    "empty template",
			source:  staticSource{sources: []builtin.Source{{Name: "empty", Raw: "\n\n"}}},
			errType: ErrTemplateInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch, _ := newTestOrchestrator(tt.source)

			_, err := orch.Render(template.NewConfig())
			if !IsType(err, tt.errType) {
				t.Errorf("expected %v, got %v", tt.errType, err)
			}
		})
	}

	orch, _ := newTestOrchestrator(staticSource{err: errors.New("unreadable")})
	if _, err := orch.Render(template.NewConfig()); err == nil {
		t.Error("expected error when the source fails")
	}
}

func TestOrchestrator_TargetRoot(t *testing.T) {
	orch, _ := newTestOrchestrator(builtin.Embedded{})

	request := validRequest(models.ModeNew)
	request.OutputDir = "/work"
	if got := orch.TargetRoot(request); got != filepath.Join("/work", "Explosion Magic") {
		t.Errorf("new TargetRoot() = %q", got)
	}

	request.Mode = models.ModeInit
	if got := orch.TargetRoot(request); got != "/work" {
		t.Errorf("init TargetRoot() = %q", got)
	}

	request.OutputDir = ""
	if got := orch.TargetRoot(request); got != "." {
		t.Errorf("init TargetRoot() without output dir = %q", got)
	}
}

func TestOrchestrator_GenerateEndToEnd(t *testing.T) {
	orch, out := newTestOrchestrator(builtin.Embedded{})

	request := validRequest(models.ModeNew)
	request.OutputDir = t.TempDir()
	root := orch.TargetRoot(request)

	if orch.HasExistingContent(root) {
		t.Fatal("fresh target should be empty")
	}

	cfg, err := orch.BuildConfig(request)
	if err != nil {
		t.Fatal(err)
	}
	rendered, err := orch.Render(cfg)
	if err != nil {
		t.Fatal(err)
	}

	report, err := orch.Generate(rendered, root, false)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if len(report.Files) != 4 {
		t.Errorf("expected 4 files in report, got %v", report.Files)
	}

	for _, r := range rendered {
		data, err := os.ReadFile(r.Template.Target(root))
		if err != nil {
			t.Fatalf("expected %s to exist: %v", r.Template.Path, err)
		}
		if string(data) != r.Template.Content {
			t.Errorf("%s content mismatch", r.Template.Path)
		}
	}

	if !orch.HasExistingContent(root) {
		t.Error("target should have content after generation")
	}

	if err := orch.WriteSummary(report); err != nil {
		t.Fatalf("WriteSummary() failed: %v", err)
	}
	if !strings.Contains(out.String(), "Created datapack in") || !strings.Contains(out.String(), "pack.mcmeta") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}
}

func TestOrchestrator_GenerateDryRun(t *testing.T) {
	orch, out := newTestOrchestrator(builtin.Embedded{})

	request := validRequest(models.ModeInit)
	request.OutputDir = filepath.Join(t.TempDir(), "pack")
	root := orch.TargetRoot(request)

	cfg, err := orch.BuildConfig(request)
	if err != nil {
		t.Fatal(err)
	}
	rendered, err := orch.Render(cfg)
	if err != nil {
		t.Fatal(err)
	}

	report, err := orch.Generate(rendered, root, true)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("dry run must not create %s", root)
	}
	if !report.DryRun || len(report.Files) != 4 {
		t.Errorf("unexpected report %+v", report)
	}

	if err := orch.WriteSummary(report); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Would create") {
		t.Errorf("dry-run summary should say 'Would create', got:\n%s", out.String())
	}
}

func TestOrchestrator_GenerateStopsAtFirstFailure(t *testing.T) {
	root := t.TempDir()
	// A regular file where the "data" directory must go
	if err := os.WriteFile(filepath.Join(root, "data"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	orch, _ := newTestOrchestrator(builtin.Embedded{})
	rendered := []interfaces.RenderedTemplate{
		{Name: "first", Template: template.New("first.txt", "one\n")},
		{Name: "blocked", Template: template.New("data/blocked.json", "{}\n")},
		{Name: "never", Template: template.New("never.txt", "three\n")},
	}

	report, err := orch.Generate(rendered, root, false)
	if !IsType(err, ErrGenerationFailed) {
		t.Fatalf("expected generation error, got %v", err)
	}

	if diff := cmp.Diff([]string{"first.txt"}, report.Files); diff != "" {
		t.Errorf("report files mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(root, "first.txt")); err != nil {
		t.Errorf("files before the failure should be kept: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "never.txt")); !os.IsNotExist(err) {
		t.Errorf("files after the failure must not be written")
	}
}

func TestOrchestrator_ListTemplates(t *testing.T) {
	orch, out := newTestOrchestrator(builtin.Embedded{})

	if err := orch.ListTemplates(); err != nil {
		t.Fatalf("ListTemplates() failed: %v", err)
	}

	for _, name := range builtin.Names() {
		if !strings.Contains(out.String(), "- "+name) {
			t.Errorf("template %q missing from list:\n%s", name, out.String())
		}
	}
}
