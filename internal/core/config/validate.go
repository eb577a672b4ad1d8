package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"sort"
	"text/template"
	"unicode/utf8"

	"github.com/hay-kot/criterio"

	"github.com/mediqhq/mediq/internal/core/dataset"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ReplyTemplateData defines available fields for scripted reply templates.
type ReplyTemplateData struct {
	Query string
}

// reservedKeys are handled by the chat composer and cannot be rebound.
var reservedKeys = map[string]bool{
	"enter":  true,
	"ctrl+c": true,
}

// ReservedKey reports whether a key is owned by the chat composer and can
// never trigger a configured action.
func ReservedKey(key string) bool {
	return reservedKeys[key]
}

// knownGlamourStyles are the standard style names glamour ships with.
var knownGlamourStyles = map[string]bool{
	"ascii":       true,
	"auto":        true,
	"dark":        true,
	"dracula":     true,
	"light":       true,
	"notty":       true,
	"pink":        true,
	"tokyo-night": true,
}

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this checks template syntax, regex patterns, and file
// access, and reports every problem instead of stopping at the first.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrorsBuilder

	errs = c.validateFileAccess(errs, configPath)
	errs = c.validateResponderDeep(errs)
	errs = c.validateUIDeep(errs)
	errs = c.validateKeybindingsDeep(errs)

	return errs.ToError()
}

// Warnings reports configuration issues that do not prevent startup.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Responder.Kind == ResponderOpenAI {
		env := c.Responder.OpenAI.APIKeyEnv
		if env != "" && os.Getenv(env) == "" {
			warnings = append(warnings, ValidationWarning{
				Category: "OpenAI",
				Item:     env,
				Message:  "environment variable is not set; the responder will fail to start",
			})
		}
	}

	if c.Responder.Kind == ResponderTriage && c.Responder.Triage.Threshold >= 0.8 {
		warnings = append(warnings, ValidationWarning{
			Category: "Triage",
			Item:     "threshold",
			Message:  fmt.Sprintf("threshold %.2f is high; most queries will match no symptoms", c.Responder.Triage.Threshold),
		})
	}

	for _, key := range sortedKeys(c.Keybindings) {
		switch {
		case reservedKeys[key]:
			warnings = append(warnings, ValidationWarning{
				Category: "Keybindings",
				Item:     key,
				Message:  "key is reserved by the chat composer and will be ignored",
			})
		case utf8.RuneCountInString(key) == 1:
			warnings = append(warnings, ValidationWarning{
				Category: "Keybindings",
				Item:     key,
				Message:  fmt.Sprintf("single characters are typed into the composer; bind a combination like ctrl+%s instead", key),
			})
		}
	}

	return warnings
}

// validateFileAccess checks config file, data directory, and the dataset file.
func (c *Config) validateFileAccess(errs criterio.FieldErrorsBuilder, configPath string) criterio.FieldErrorsBuilder {
	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil {
			if info.IsDir() {
				errs = errs.Append("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
			}
		} else if !os.IsNotExist(err) {
			errs = errs.Append("config_file", fmt.Errorf("cannot access %s: %v", configPath, err))
		}
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil {
			if !info.IsDir() {
				errs = errs.Append("data_dir", fmt.Errorf("%s exists but is not a directory", c.DataDir))
			}
		} else if !os.IsNotExist(err) {
			errs = errs.Append("data_dir", fmt.Errorf("cannot access %s: %v", c.DataDir, err))
		}
	}

	// The dataset file only matters when the triage backend is selected.
	if c.Responder.Kind == ResponderTriage {
		errs = c.validateDatasetFile(errs)
	}

	return errs
}

func (c *Config) validateDatasetFile(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	path := c.DatasetPath()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errs.Append("responder.triage.dataset", fmt.Errorf("dataset file not found: %s (run 'mediq dataset build' to create it)", path))
	}
	if err != nil {
		return errs.Append("responder.triage.dataset", fmt.Errorf("cannot read %s: %v", path, err))
	}

	var ds dataset.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return errs.Append("responder.triage.dataset", fmt.Errorf("parse dataset file: %v", err))
	}
	if err := ds.Validate(); err != nil {
		return errs.Append("responder.triage.dataset", fmt.Errorf("invalid dataset: %v", err))
	}

	return errs
}

// validateResponderDeep checks every backend section, not just the selected
// one, so problems surface before a user switches kinds.
func (c *Config) validateResponderDeep(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	if !isValidResponder(c.Responder.Kind) {
		errs = errs.Append("responder.kind", fmt.Errorf("unknown responder %q", c.Responder.Kind))
	}

	errs = c.validateScriptedDeep(errs)
	errs = c.validateTriageDeep(errs)
	errs = c.validateOpenAIDeep(errs)

	return errs
}

func (c *Config) validateScriptedDeep(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	s := c.Responder.Scripted

	if _, err := parseDelay(s.Delay); err != nil {
		errs = errs.Append("responder.scripted.delay", err)
	}

	if s.DefaultReply != "" {
		if err := validateTemplate(s.DefaultReply, ReplyTemplateData{}); err != nil {
			errs = errs.Append("responder.scripted.default_reply", fmt.Errorf("template error: %v", err))
		}
	}

	for i, rule := range s.Rules {
		field := fmt.Sprintf("responder.scripted.rules[%d]", i)

		if rule.Pattern == "" {
			errs = errs.Append(field+".pattern", fmt.Errorf("pattern is required"))
		} else if _, err := regexp.Compile(rule.Pattern); err != nil {
			errs = errs.Append(field+".pattern", fmt.Errorf("invalid regex %q: %v", rule.Pattern, err))
		}

		if rule.Reply == "" {
			errs = errs.Append(field+".reply", fmt.Errorf("reply is required"))
		} else if err := validateTemplate(rule.Reply, ReplyTemplateData{}); err != nil {
			errs = errs.Append(field+".reply", fmt.Errorf("template error: %v", err))
		}

		if _, err := parseDelay(rule.Delay); err != nil {
			errs = errs.Append(field+".delay", err)
		}
	}

	return errs
}

func (c *Config) validateTriageDeep(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	t := c.Responder.Triage

	if t.Strategy != "vector" && t.Strategy != "hybrid" {
		errs = errs.Append("responder.triage.strategy", fmt.Errorf("must be %q or %q, got %q", "vector", "hybrid", t.Strategy))
	}
	if t.Alpha < 0 || t.Alpha > 1 {
		errs = errs.Append("responder.triage.alpha", fmt.Errorf("must be between 0 and 1, got %g", t.Alpha))
	}
	if t.Threshold < 0 || t.Threshold > 1 {
		errs = errs.Append("responder.triage.threshold", fmt.Errorf("must be between 0 and 1, got %g", t.Threshold))
	}
	if t.TopK < 1 {
		errs = errs.Append("responder.triage.top_k", fmt.Errorf("must be at least 1, got %d", t.TopK))
	}

	return errs
}

func (c *Config) validateOpenAIDeep(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	o := c.Responder.OpenAI

	if o.Model == "" {
		errs = errs.Append("responder.openai.model", fmt.Errorf("model is required"))
	}
	if o.APIKeyEnv == "" {
		errs = errs.Append("responder.openai.api_key_env", fmt.Errorf("api_key_env is required"))
	}

	if o.BaseURL != "" {
		u, err := url.Parse(o.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = errs.Append("responder.openai.base_url", fmt.Errorf("must be an absolute URL, got %q", o.BaseURL))
		}
	}

	return errs
}

func (c *Config) validateUIDeep(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	if !knownGlamourStyles[c.UI.GlamourStyle] {
		errs = errs.Append("ui.glamour_style", fmt.Errorf("unknown style %q (valid: ascii, auto, dark, dracula, light, notty, pink, tokyo-night)", c.UI.GlamourStyle))
	}

	return errs
}

func (c *Config) validateKeybindingsDeep(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	for _, key := range sortedKeys(c.Keybindings) {
		kb := c.Keybindings[key]
		field := fmt.Sprintf("keybindings[%s]", key)

		if kb.Action == "" {
			errs = errs.Append(field, fmt.Errorf("must have an action"))
			continue
		}
		if !isValidAction(kb.Action) {
			errs = errs.Append(field, fmt.Errorf("invalid action %q (valid: clear, copy, help, quit)", kb.Action))
		}
	}

	return errs
}

// sortedKeys returns map keys in a stable order for deterministic reports.
func sortedKeys(m map[string]Keybinding) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// validateTemplate checks if a template string is valid.
func validateTemplate(tmplStr string, data any) error {
	t, err := template.New("").Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return err
	}

	// Dry-run execute to catch missing key errors
	// We pass empty/zero data so missing keys are caught
	return t.Execute(io.Discard, data)
}
