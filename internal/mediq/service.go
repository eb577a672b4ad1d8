// Package mediq wires configuration, storage, and response backends into the
// chat service used by every command.
package mediq

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mediqhq/mediq/internal/core/chat"
	"github.com/mediqhq/mediq/internal/core/config"
	"github.com/mediqhq/mediq/internal/core/dataset"
	"github.com/mediqhq/mediq/internal/integration/clipboard"
	"github.com/mediqhq/mediq/internal/responder/openai"
	"github.com/mediqhq/mediq/internal/responder/scripted"
	"github.com/mediqhq/mediq/internal/responder/triage"
	"github.com/mediqhq/mediq/internal/store/jsonfile"
)

// Service orchestrates mediq operations.
type Service struct {
	config    *config.Config
	datasets  dataset.Store
	clipboard *clipboard.Clipboard
	log       zerolog.Logger
}

// New creates a new Service. clip may be nil when no clipboard tool is
// installed; copying then reports clipboard.ErrNoTool.
func New(cfg *config.Config, datasets dataset.Store, clip *clipboard.Clipboard, log zerolog.Logger) *Service {
	return &Service{
		config:    cfg,
		datasets:  datasets,
		clipboard: clip,
		log:       log,
	}
}

// ResponderKind reports the configured backend, for status display.
func (s *Service) ResponderKind() string {
	return s.config.Responder.Kind
}

// AssistantName reports the configured display name.
func (s *Service) AssistantName() string {
	return s.config.Assistant.Name
}

// NewEngine builds a chat engine backed by the configured responder.
func (s *Service) NewEngine(ctx context.Context) (*chat.Engine, error) {
	responder, err := s.BuildResponder(ctx)
	if err != nil {
		return nil, fmt.Errorf("build responder: %w", err)
	}

	engine := chat.New(responder, chat.Options{
		Logger:     s.log.With().Str("component", "engine").Logger(),
		ErrorReply: s.config.Assistant.ErrorReply,
	})

	return engine, nil
}

// BuildResponder constructs the backend selected by responder.kind.
func (s *Service) BuildResponder(ctx context.Context) (chat.Responder, error) {
	log := s.log.With().Str("component", "responder").Str("kind", s.config.Responder.Kind).Logger()

	switch s.config.Responder.Kind {
	case config.ResponderScripted:
		return s.buildScripted(log)
	case config.ResponderTriage:
		return s.buildTriage(ctx, log)
	case config.ResponderOpenAI:
		return s.buildOpenAI(log)
	default:
		return nil, fmt.Errorf("unknown responder kind %q", s.config.Responder.Kind)
	}
}

func (s *Service) buildScripted(log zerolog.Logger) (chat.Responder, error) {
	delay, err := s.config.ScriptedDelay()
	if err != nil {
		return nil, fmt.Errorf("responder.scripted.delay: %w", err)
	}

	var rules []scripted.Rule
	for i, rule := range s.config.Responder.Scripted.Rules {
		ruleDelay := delay
		if rule.Delay != "" {
			d, err := s.config.RuleDelay(i)
			if err != nil {
				return nil, fmt.Errorf("responder.scripted.rules[%d].delay: %w", i, err)
			}
			ruleDelay = d
		}
		rules = append(rules, scripted.Rule{
			Pattern: rule.Pattern,
			Reply:   rule.Reply,
			Delay:   ruleDelay,
		})
	}

	return scripted.New(scripted.Options{
		Rules:  rules,
		Reply:  s.config.Responder.Scripted.DefaultReply,
		Delay:  delay,
		Logger: log,
	})
}

func (s *Service) buildTriage(ctx context.Context, log zerolog.Logger) (chat.Responder, error) {
	ds, err := s.datasets.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	cfg := s.config.Responder.Triage
	return triage.New(ds, triage.Options{
		Strategy:  triage.Strategy(cfg.Strategy),
		Threshold: cfg.Threshold,
		TopK:      cfg.TopK,
		Alpha:     cfg.Alpha,
		Logger:    log,
	})
}

func (s *Service) buildOpenAI(log zerolog.Logger) (chat.Responder, error) {
	cfg := s.config.Responder.OpenAI
	return openai.New(openai.Options{
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		KeyEnv:  cfg.APIKeyEnv,
		Logger:  log,
	})
}

// LoadDataset reads the disease knowledge base from storage.
func (s *Service) LoadDataset(ctx context.Context) (dataset.Dataset, error) {
	ds, err := s.datasets.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}

// BuildDataset assembles a dataset from the raw CSV exports and stores it at
// the configured dataset path.
func (s *Service) BuildDataset(ctx context.Context, symptomsPath, precautionsPath string) (dataset.Dataset, error) {
	return s.buildDataset(ctx, symptomsPath, precautionsPath, s.datasets)
}

// BuildDatasetAt is BuildDataset writing to an explicit output file instead.
func (s *Service) BuildDatasetAt(ctx context.Context, symptomsPath, precautionsPath, outPath string) (dataset.Dataset, error) {
	return s.buildDataset(ctx, symptomsPath, precautionsPath, jsonfile.New(outPath))
}

func (s *Service) buildDataset(ctx context.Context, symptomsPath, precautionsPath string, dest dataset.Store) (dataset.Dataset, error) {
	s.log.Info().
		Str("symptoms", symptomsPath).
		Str("precautions", precautionsPath).
		Msg("building dataset")

	symptoms, err := os.Open(symptomsPath)
	if err != nil {
		return nil, fmt.Errorf("open symptoms file: %w", err)
	}
	defer symptoms.Close()

	precautions, err := os.Open(precautionsPath)
	if err != nil {
		return nil, fmt.Errorf("open precautions file: %w", err)
	}
	defer precautions.Close()

	ds, err := dataset.Build(symptoms, precautions, s.log.With().Str("component", "dataset").Logger())
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("built dataset is invalid: %w", err)
	}

	if err := dest.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}

	return ds, nil
}

// CopyToClipboard places text on the system clipboard.
func (s *Service) CopyToClipboard(ctx context.Context, text string) error {
	if s.clipboard == nil {
		return clipboard.ErrNoTool
	}
	return s.clipboard.Copy(ctx, text)
}

// ClipboardTool reports the detected clipboard helper, or empty when none.
func (s *Service) ClipboardTool() string {
	if s.clipboard == nil {
		return ""
	}
	return s.clipboard.ToolName()
}
