package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
	pkgerrors "canvas-backend/pkg/errors"
)

// GeminiProvider backs chat, transcription and vision analysis with the
// Gemini API. One generative model instance serves all three.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

var _ ports.ChatModel = (*GeminiProvider)(nil)
var _ ports.Transcriber = (*GeminiProvider)(nil)
var _ ports.VisionAnalyzer = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini-backed provider
func NewGeminiProvider(apiKey, modelName, systemPrompt string, logger *zap.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("no API key provided")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	return &GeminiProvider{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Provider returns the provider name
func (p *GeminiProvider) Provider() string {
	return "gemini"
}

// Generate sends the conversation and context to Gemini and returns the reply
func (p *GeminiProvider) Generate(ctx context.Context, history []entities.ChatMessage, contextText string) (string, error) {
	if len(history) == 0 {
		return "", pkgerrors.NewValidationError("conversation is empty")
	}

	chat := p.model.StartChat()
	prior := history[:len(history)-1]
	chat.History = make([]*genai.Content, 0, len(prior))
	for _, msg := range prior {
		if msg.Role == entities.RoleSystem {
			continue
		}
		chat.History = append(chat.History, &genai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	prompt := wrapPrompt(contextText, history[len(history)-1].Content)
	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	return collectText(resp)
}

// Transcribe sends an audio clip to Gemini and returns the transcript
func (p *GeminiProvider) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	resp, err := p.model.GenerateContent(ctx,
		genai.Text("Transcribe this audio recording. Return only the spoken text."),
		genai.Blob{MIMEType: mimeType, Data: data},
	)
	if err != nil {
		return "", err
	}
	return collectText(resp)
}

// Analyze sends an image to Gemini and returns a textual description
func (p *GeminiProvider) Analyze(ctx context.Context, data []byte, mimeType string) (string, error) {
	resp, err := p.model.GenerateContent(ctx,
		genai.Text("Describe this image in detail so its content can be used as conversation context."),
		genai.Blob{MIMEType: mimeType, Data: data},
	)
	if err != nil {
		return "", err
	}
	return collectText(resp)
}

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func geminiRole(role entities.MessageRole) string {
	if role == entities.RoleModel {
		return "model"
	}
	return "user"
}

func collectText(resp *genai.GenerateContentResponse) (string, error) {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	if sb.Len() == 0 {
		return "", errors.New("no response generated")
	}
	return sb.String(), nil
}
