// Package config handles configuration loading and validation for mediq.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in action names for keybindings.
const (
	ActionClear = "clear"
	ActionCopy  = "copy"
	ActionHelp  = "help"
	ActionQuit  = "quit"
)

// Responder kinds selectable via responder.kind.
const (
	ResponderScripted = "scripted"
	ResponderTriage   = "triage"
	ResponderOpenAI   = "openai"
)

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"ctrl+l": {
		Action:  ActionClear,
		Help:    "new chat",
		Confirm: "Start a new conversation? The current one will be discarded.",
	},
	"ctrl+y": {
		Action: ActionCopy,
		Help:   "copy answer",
	},
	"ctrl+o": {
		Action: ActionHelp,
		Help:   "more keys",
	},
}

// Config holds the application configuration.
type Config struct {
	Assistant   Assistant             `yaml:"assistant"`
	Responder   ResponderConfig       `yaml:"responder"`
	UI          UIConfig              `yaml:"ui"`
	Keybindings map[string]Keybinding `yaml:"keybindings"`
	DataDir     string                `yaml:"-"` // set by caller, not from config file
}

// Assistant configures how the assistant presents itself.
type Assistant struct {
	// Name is shown in the TUI status bar and transcript.
	Name string `yaml:"name"`
	// ErrorReply replaces a failed response. Empty uses the built-in text.
	ErrorReply string `yaml:"error_reply"`
}

// ResponderConfig selects and configures the response backend.
type ResponderConfig struct {
	Kind     string         `yaml:"kind"`
	Scripted ScriptedConfig `yaml:"scripted"`
	Triage   TriageConfig   `yaml:"triage"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
}

// ScriptedConfig configures the canned-reply backend.
type ScriptedConfig struct {
	// Delay is a Go duration string simulating thinking time.
	Delay string `yaml:"delay"`
	// DefaultReply is used when no rule matches. Empty uses the built-in text.
	DefaultReply string `yaml:"default_reply"`
	// Rules replace the built-in script when set.
	Rules []ScriptedRule `yaml:"rules"`
}

// ScriptedRule maps a query pattern to a canned reply.
type ScriptedRule struct {
	Pattern string `yaml:"pattern"` // case-insensitive regex
	Reply   string `yaml:"reply"`   // template with {{ .Query }} available
	Delay   string `yaml:"delay"`   // per-rule override, Go duration string
}

// TriageConfig configures the symptom-matching backend.
type TriageConfig struct {
	// Dataset locates the disease knowledge base. Relative paths are
	// resolved against the data directory.
	Dataset   string  `yaml:"dataset"`
	Strategy  string  `yaml:"strategy"` // vector or hybrid
	Alpha     float64 `yaml:"alpha"`
	Threshold float64 `yaml:"threshold"`
	TopK      int     `yaml:"top_k"`
}

// OpenAIConfig configures the OpenAI-backed responder.
type OpenAIConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
}

// UIConfig holds terminal presentation options.
type UIConfig struct {
	// GlamourStyle selects the markdown theme for rendered answers.
	GlamourStyle string `yaml:"glamour_style"`
	// ShowTimestamps prints a send time next to each message.
	ShowTimestamps bool `yaml:"show_timestamps"`
}

// Keybinding defines a TUI keybinding action.
type Keybinding struct {
	Action  string `yaml:"action"`  // built-in action name (clear, copy, quit)
	Help    string `yaml:"help"`    // help text shown in TUI
	Confirm string `yaml:"confirm"` // confirmation prompt (empty = no confirm)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Assistant: Assistant{
			Name: "MedIQ Assistant",
		},
		Responder: ResponderConfig{
			Kind: ResponderScripted,
			Scripted: ScriptedConfig{
				Delay: "600ms",
			},
			Triage: TriageConfig{
				Dataset:   "medical_dataset.json",
				Strategy:  "vector",
				Alpha:     0.6,
				Threshold: 0.45,
				TopK:      3,
			},
			OpenAI: OpenAIConfig{
				Model:     "gpt-4o-mini",
				APIKeyEnv: "OPENAI_API_KEY",
			},
		},
		UI: UIConfig{
			GlamourStyle: "tokyo-night",
		},
		Keybindings: map[string]Keybinding{},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Assistant.Name == "" {
		c.Assistant.Name = defaults.Assistant.Name
	}
	if c.Responder.Kind == "" {
		c.Responder.Kind = defaults.Responder.Kind
	}
	if c.Responder.Triage.Dataset == "" {
		c.Responder.Triage.Dataset = defaults.Responder.Triage.Dataset
	}
	if c.Responder.Triage.Strategy == "" {
		c.Responder.Triage.Strategy = defaults.Responder.Triage.Strategy
	}
	if c.Responder.Triage.Alpha == 0 {
		c.Responder.Triage.Alpha = defaults.Responder.Triage.Alpha
	}
	if c.Responder.Triage.Threshold == 0 {
		c.Responder.Triage.Threshold = defaults.Responder.Triage.Threshold
	}
	if c.Responder.Triage.TopK == 0 {
		c.Responder.Triage.TopK = defaults.Responder.Triage.TopK
	}
	if c.Responder.OpenAI.Model == "" {
		c.Responder.OpenAI.Model = defaults.Responder.OpenAI.Model
	}
	if c.Responder.OpenAI.APIKeyEnv == "" {
		c.Responder.OpenAI.APIKeyEnv = defaults.Responder.OpenAI.APIKeyEnv
	}
	if c.UI.GlamourStyle == "" {
		c.UI.GlamourStyle = defaults.UI.GlamourStyle
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]Keybinding) map[string]Keybinding {
	result := make(map[string]Keybinding, len(defaults)+len(user))

	// Copy defaults first
	for k, v := range defaults {
		result[k] = v
	}

	// Override with user config
	for k, v := range user {
		result[k] = v
	}

	return result
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Assistant.Name == "" {
		return fmt.Errorf("assistant.name cannot be empty")
	}

	if !isValidResponder(c.Responder.Kind) {
		return fmt.Errorf("responder.kind must be one of %q, %q, %q", ResponderScripted, ResponderTriage, ResponderOpenAI)
	}

	if err := c.validateScripted(); err != nil {
		return err
	}

	if err := c.validateTriage(); err != nil {
		return err
	}

	if c.Responder.OpenAI.Model == "" {
		return fmt.Errorf("responder.openai.model cannot be empty")
	}
	if c.Responder.OpenAI.APIKeyEnv == "" {
		return fmt.Errorf("responder.openai.api_key_env cannot be empty")
	}

	if c.UI.GlamourStyle == "" {
		return fmt.Errorf("ui.glamour_style cannot be empty")
	}

	for key, kb := range c.Keybindings {
		if kb.Action == "" {
			return fmt.Errorf("keybinding %q must have an action", key)
		}
		if !isValidAction(kb.Action) {
			return fmt.Errorf("keybinding %q has invalid action %q", key, kb.Action)
		}
	}

	return nil
}

func (c *Config) validateScripted() error {
	if _, err := parseDelay(c.Responder.Scripted.Delay); err != nil {
		return fmt.Errorf("responder.scripted.delay: %w", err)
	}

	for i, rule := range c.Responder.Scripted.Rules {
		if rule.Pattern == "" {
			return fmt.Errorf("responder.scripted.rules[%d] must have a pattern", i)
		}
		if rule.Reply == "" {
			return fmt.Errorf("responder.scripted.rules[%d] must have a reply", i)
		}
		if _, err := parseDelay(rule.Delay); err != nil {
			return fmt.Errorf("responder.scripted.rules[%d].delay: %w", i, err)
		}
	}

	return nil
}

func (c *Config) validateTriage() error {
	t := c.Responder.Triage

	if t.Dataset == "" {
		return fmt.Errorf("responder.triage.dataset cannot be empty")
	}
	if t.Strategy != "vector" && t.Strategy != "hybrid" {
		return fmt.Errorf("responder.triage.strategy must be %q or %q", "vector", "hybrid")
	}
	if t.Alpha < 0 || t.Alpha > 1 {
		return fmt.Errorf("responder.triage.alpha must be between 0 and 1")
	}
	if t.Threshold < 0 || t.Threshold > 1 {
		return fmt.Errorf("responder.triage.threshold must be between 0 and 1")
	}
	if t.TopK < 1 {
		return fmt.Errorf("responder.triage.top_k must be at least 1")
	}

	return nil
}

// ScriptedDelay returns the parsed thinking delay for the scripted backend.
func (c *Config) ScriptedDelay() (time.Duration, error) {
	return parseDelay(c.Responder.Scripted.Delay)
}

// RuleDelay returns the parsed per-rule delay override for rule i.
func (c *Config) RuleDelay(i int) (time.Duration, error) {
	if i < 0 || i >= len(c.Responder.Scripted.Rules) {
		return 0, fmt.Errorf("rule index %d out of range", i)
	}
	return parseDelay(c.Responder.Scripted.Rules[i].Delay)
}

// DatasetPath resolves the triage dataset location. Relative paths are
// resolved against the data directory.
func (c *Config) DatasetPath() string {
	if filepath.IsAbs(c.Responder.Triage.Dataset) {
		return c.Responder.Triage.Dataset
	}
	return filepath.Join(c.DataDir, c.Responder.Triage.Dataset)
}

// parseDelay parses an optional Go duration string. Empty means zero.
func parseDelay(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration cannot be negative")
	}
	return d, nil
}

func isValidResponder(kind string) bool {
	switch kind {
	case ResponderScripted, ResponderTriage, ResponderOpenAI:
		return true
	default:
		return false
	}
}

func isValidAction(action string) bool {
	switch action {
	case ActionClear, ActionCopy, ActionHelp, ActionQuit:
		return true
	default:
		return false
	}
}
