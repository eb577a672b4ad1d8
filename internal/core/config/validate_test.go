package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

// writeDataset writes a minimal valid dataset file into the data directory.
func writeDataset(t *testing.T, cfg *Config, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(cfg.DatasetPath(), []byte(content), 0o644))
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Scripted.Rules = []ScriptedRule{
		{Pattern: `\bflu\b`, Reply: "Stay hydrated and rest."},
		{Pattern: `.*`, Reply: "You asked: {{ .Query }}", Delay: "1s"},
	}
	cfg.Keybindings = map[string]Keybinding{
		"ctrl+l": {Action: ActionClear, Help: "new chat"},
		"ctrl+y": {Action: ActionCopy, Help: "copy answer"},
	}

	err := cfg.ValidateDeep("")
	assert.NoError(t, err, "expected valid config")
}

func TestValidateDeep_InvalidRulePattern(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Scripted.Rules = []ScriptedRule{
		{Pattern: "[invalid", Reply: "hello"},
	}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "responder.scripted.rules[0].pattern")
	assert.Contains(t, fieldErrs[0].Err.Error(), "invalid regex")
}

func TestValidateDeep_InvalidReplyTemplate(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Scripted.Rules = []ScriptedRule{
		{Pattern: ".*", Reply: "You asked: {{ .Invalid }}"},
	}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "responder.scripted.rules[0].reply")
	assert.Contains(t, fieldErrs[0].Err.Error(), "template error")
}

func TestValidateDeep_InvalidDefaultReplyTemplate(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Scripted.DefaultReply = "{{ .Missing }}"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "responder.scripted.default_reply")
}

func TestValidateDeep_InvalidDelay(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Scripted.Delay = "fast"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "responder.scripted.delay")
	assert.Contains(t, fieldErrs[0].Err.Error(), "invalid duration")
}

func TestValidateDeep_UnknownResponderKind(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Kind = "llama"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "responder.kind")
	assert.Contains(t, fieldErrs[0].Err.Error(), "unknown responder")
}

func TestValidateDeep_DatasetNotFound(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Kind = ResponderTriage

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "responder.triage.dataset")
	assert.Contains(t, fieldErrs[0].Err.Error(), "not found")
}

func TestValidateDeep_ValidDataset(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Kind = ResponderTriage
	writeDataset(t, cfg, `[{"disease":"Flu","symptoms":["fever","chills"],"precautions":["rest"]}]`)

	err := cfg.ValidateDeep("")
	assert.NoError(t, err)
}

func TestValidateDeep_CorruptDataset(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Kind = ResponderTriage
	writeDataset(t, cfg, `{not json`)

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Err.Error(), "parse dataset file")
}

func TestValidateDeep_EmptyDataset(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Kind = ResponderTriage
	writeDataset(t, cfg, `[]`)

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Err.Error(), "invalid dataset")
}

func TestValidateDeep_InvalidTriageRanges(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Triage.Strategy = "graph"
	cfg.Responder.Triage.Alpha = 1.5
	cfg.Responder.Triage.Threshold = -0.1
	cfg.Responder.Triage.TopK = 0

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 4)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "responder.triage.strategy")
	assert.Contains(t, fields, "responder.triage.alpha")
	assert.Contains(t, fields, "responder.triage.threshold")
	assert.Contains(t, fields, "responder.triage.top_k")
}

func TestValidateDeep_InvalidBaseURL(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.OpenAI.BaseURL = "not a url"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "responder.openai.base_url")
	assert.Contains(t, fieldErrs[0].Err.Error(), "absolute URL")
}

func TestValidateDeep_ValidBaseURL(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.OpenAI.BaseURL = "http://localhost:11434/v1"

	err := cfg.ValidateDeep("")
	assert.NoError(t, err)
}

func TestValidateDeep_UnknownGlamourStyle(t *testing.T) {
	cfg := validConfig(t)
	cfg.UI.GlamourStyle = "solarized"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "ui.glamour_style")
	assert.Contains(t, fieldErrs[0].Err.Error(), "unknown style")
}

func TestValidateDeep_KeybindingNoAction(t *testing.T) {
	cfg := validConfig(t)
	cfg.Keybindings = map[string]Keybinding{
		"x": {Help: "does nothing"},
	}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Err.Error(), "must have an action")
}

func TestValidateDeep_KeybindingInvalidAction(t *testing.T) {
	cfg := validConfig(t)
	cfg.Keybindings = map[string]Keybinding{
		"x": {Action: "recycle"},
	}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Err.Error(), "invalid action")
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "notadir")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

	cfg := validConfig(t)
	cfg.DataDir = tmpFile

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	hasDataDirError := false
	for _, e := range fieldErrs {
		if e.Field == "data_dir" {
			hasDataDirError = true
			break
		}
	}
	assert.True(t, hasDataDirError, "expected error about data dir")
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := validConfig(t)

	err := cfg.ValidateDeep(tmpDir)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	hasConfigError := false
	for _, e := range fieldErrs {
		if e.Field == "config_file" {
			hasConfigError = true
			break
		}
	}
	assert.True(t, hasConfigError, "expected error about config file being a directory")
}

func TestWarnings_OpenAIKeyMissing(t *testing.T) {
	t.Setenv("MEDIQ_TEST_MISSING_KEY", "")

	cfg := validConfig(t)
	cfg.Responder.Kind = ResponderOpenAI
	cfg.Responder.OpenAI.APIKeyEnv = "MEDIQ_TEST_MISSING_KEY"

	warnings := cfg.Warnings()
	hasWarning := false
	for _, w := range warnings {
		if w.Category == "OpenAI" && strings.Contains(w.Message, "not set") {
			hasWarning = true
			break
		}
	}
	assert.True(t, hasWarning, "expected warning about missing API key")
}

func TestWarnings_OpenAIKeyPresent(t *testing.T) {
	t.Setenv("MEDIQ_TEST_PRESENT_KEY", "sk-test")

	cfg := validConfig(t)
	cfg.Responder.Kind = ResponderOpenAI
	cfg.Responder.OpenAI.APIKeyEnv = "MEDIQ_TEST_PRESENT_KEY"

	assert.Empty(t, cfg.Warnings())
}

func TestWarnings_ReservedKeybinding(t *testing.T) {
	cfg := validConfig(t)
	cfg.Keybindings = map[string]Keybinding{
		"enter": {Action: ActionClear},
	}

	warnings := cfg.Warnings()
	hasWarning := false
	for _, w := range warnings {
		if w.Category == "Keybindings" && w.Item == "enter" {
			hasWarning = true
			break
		}
	}
	assert.True(t, hasWarning, "expected warning about reserved key")
}

func TestWarnings_SingleCharacterKeybinding(t *testing.T) {
	cfg := validConfig(t)
	cfg.Keybindings = map[string]Keybinding{
		"y": {Action: ActionCopy},
	}

	warnings := cfg.Warnings()
	hasWarning := false
	for _, w := range warnings {
		if w.Category == "Keybindings" && w.Item == "y" {
			hasWarning = true
			assert.Contains(t, w.Message, "ctrl+y")
			break
		}
	}
	assert.True(t, hasWarning, "expected warning about single-character key")
}

func TestReservedKey(t *testing.T) {
	assert.True(t, ReservedKey("enter"))
	assert.True(t, ReservedKey("ctrl+c"))
	assert.False(t, ReservedKey("ctrl+l"))
}

func TestWarnings_HighTriageThreshold(t *testing.T) {
	cfg := validConfig(t)
	cfg.Responder.Kind = ResponderTriage
	cfg.Responder.Triage.Threshold = 0.9

	warnings := cfg.Warnings()
	hasWarning := false
	for _, w := range warnings {
		if w.Category == "Triage" && w.Item == "threshold" {
			hasWarning = true
			break
		}
	}
	assert.True(t, hasWarning, "expected warning about high threshold")
}

func TestWarnings_NoneForDefaults(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())
}
