// Package openai provides a responder backed by the OpenAI chat API.
package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// systemPrompt frames the assistant and pins the safety disclaimer.
const systemPrompt = "You are a cautious medical information assistant. " +
	"Give short, practical guidance about symptoms, prevention, and general wellbeing. " +
	"Never present your answer as a diagnosis, and always remind the user to " +
	"consult a healthcare professional for proper diagnosis and treatment."

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// DefaultKeyEnv names the environment variable checked for the API key.
const DefaultKeyEnv = "OPENAI_API_KEY"

// ChatClient is the slice of the OpenAI API the responder uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures a Responder.
type Options struct {
	// Model defaults to DefaultModel.
	Model string
	// BaseURL overrides the API endpoint, for compatible local servers.
	BaseURL string
	// KeyEnv names the environment variable holding the API key.
	// Defaults to DefaultKeyEnv.
	KeyEnv string
	// Client replaces the real API client, for tests.
	Client ChatClient
	// Logger receives request diagnostics.
	Logger zerolog.Logger
}

// Responder asks an OpenAI chat model to answer each turn.
type Responder struct {
	client ChatClient
	model  string
	log    zerolog.Logger
}

// New builds the responder. Unless a client is injected, the API key is read
// from the configured environment variable and must be present.
func New(opts Options) (*Responder, error) {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	client := opts.Client
	if client == nil {
		keyEnv := opts.KeyEnv
		if keyEnv == "" {
			keyEnv = DefaultKeyEnv
		}
		key := os.Getenv(keyEnv)
		if key == "" {
			return nil, fmt.Errorf("environment variable %s is not set", keyEnv)
		}

		cfg := openai.DefaultConfig(key)
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}
		client = openai.NewClientWithConfig(cfg)
	}

	return &Responder{
		client: client,
		model:  model,
		log:    opts.Logger,
	}, nil
}

// Respond sends the submitted text as a single-turn completion request.
func (r *Responder) Respond(ctx context.Context, text string) (string, error) {
	r.log.Debug().Str("model", r.model).Msg("requesting chat completion")

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
