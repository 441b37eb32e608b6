package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
	"canvas-backend/infrastructure/config"
)

// Providers bundles the model-backed capabilities of one provider
type Providers struct {
	Chat        ports.ChatModel
	Transcriber ports.Transcriber
	Vision      ports.VisionAnalyzer
}

// NewProviders builds the provider set for the configured backend. A missing
// API key does not fail startup: chat degrades to an instructional reply and
// enrichment degrades to placeholders, so the canvas stays usable.
func NewProviders(cfg *config.Config, logger *zap.Logger) (*Providers, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY not set, model features disabled")
			return unconfigured("gemini", "GEMINI_API_KEY"), nil
		}
		provider, err := NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SystemPrompt, logger)
		if err != nil {
			return nil, err
		}
		return &Providers{Chat: provider, Transcriber: provider, Vision: provider}, nil

	case "groq":
		if cfg.GroqAPIKey == "" {
			logger.Warn("GROQ_API_KEY not set, model features disabled")
			return unconfigured("groq", "GROQ_API_KEY"), nil
		}
		provider, err := NewGroqProvider(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel, cfg.SystemPrompt, logger)
		if err != nil {
			return nil, err
		}
		return &Providers{Chat: provider, Transcriber: provider, Vision: provider}, nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func unconfigured(provider, keyName string) *Providers {
	u := &UnconfiguredProvider{provider: provider, keyName: keyName}
	return &Providers{Chat: u, Transcriber: u, Vision: u}
}

// UnconfiguredProvider stands in when no API key is configured. Chat replies
// with setup instructions instead of an error so the user learns what to do
// from inside the conversation.
type UnconfiguredProvider struct {
	provider string
	keyName  string
}

var _ ports.ChatModel = (*UnconfiguredProvider)(nil)
var _ ports.Transcriber = (*UnconfiguredProvider)(nil)
var _ ports.VisionAnalyzer = (*UnconfiguredProvider)(nil)

// Provider returns the configured provider name
func (p *UnconfiguredProvider) Provider() string {
	return p.provider
}

// Generate returns setup instructions as the chat reply
func (p *UnconfiguredProvider) Generate(_ context.Context, _ []entities.ChatMessage, _ string) (string, error) {
	return fmt.Sprintf(
		"No API key is configured for the %s provider. Set the %s environment variable and restart the server to enable chat.",
		p.provider, p.keyName,
	), nil
}

// Transcribe reports that transcription is unavailable
func (p *UnconfiguredProvider) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return "", errors.New(p.keyName + " is not configured")
}

// Analyze reports that vision analysis is unavailable
func (p *UnconfiguredProvider) Analyze(_ context.Context, _ []byte, _ string) (string, error) {
	return "", errors.New(p.keyName + " is not configured")
}
