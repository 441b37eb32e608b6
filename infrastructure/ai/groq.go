package ai

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"context"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
	pkgerrors "canvas-backend/pkg/errors"
)

const groqWhisperModel = "whisper-large-v3"

// GroqProvider backs chat, transcription and vision analysis with Groq's
// OpenAI-compatible API
type GroqProvider struct {
	client       *openai.Client
	model        string
	systemPrompt string
	logger       *zap.Logger
}

var _ ports.ChatModel = (*GroqProvider)(nil)
var _ ports.Transcriber = (*GroqProvider)(nil)
var _ ports.VisionAnalyzer = (*GroqProvider)(nil)

// NewGroqProvider creates a Groq-backed provider
func NewGroqProvider(baseURL, apiKey, model, systemPrompt string, logger *zap.Logger) (*GroqProvider, error) {
	if apiKey == "" {
		return nil, errors.New("no API key provided")
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	client := openai.NewClientWithConfig(config)

	return &GroqProvider{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
		logger:       logger,
	}, nil
}

// Provider returns the provider name
func (p *GroqProvider) Provider() string {
	return "groq"
}

// Generate sends the conversation and context to Groq and returns the reply
func (p *GroqProvider) Generate(ctx context.Context, history []entities.ChatMessage, contextText string) (string, error) {
	if len(history) == 0 {
		return "", pkgerrors.NewValidationError("conversation is empty")
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if p.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: p.systemPrompt,
		})
	}
	for i, msg := range history {
		if msg.Role == entities.RoleSystem {
			continue
		}
		content := msg.Content
		if i == len(history)-1 {
			content = wrapPrompt(contextText, content)
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    groqRole(msg.Role),
			Content: content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}

	return resp.Choices[0].Message.Content, nil
}

// Transcribe sends an audio clip to Groq's whisper endpoint
func (p *GroqProvider) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    groqWhisperModel,
		Reader:   bytes.NewReader(data),
		FilePath: "recording" + extensionFor(mimeType),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Analyze sends an image as a data URL and returns a textual description
func (p *GroqProvider) Analyze(ctx context.Context, data []byte, mimeType string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Describe this image in detail so its content can be used as conversation context.",
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}

	return resp.Choices[0].Message.Content, nil
}

func groqRole(role entities.MessageRole) string {
	if role == entities.RoleModel {
		return openai.ChatMessageRoleAssistant
	}
	return openai.ChatMessageRoleUser
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/webm":
		return ".webm"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	case "audio/mp4", "audio/m4a":
		return ".m4a"
	default:
		return ".webm"
	}
}
