package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canvas-backend/infrastructure/config"
)

func TestNewProviders_MissingKeyDoesNotFailStartup(t *testing.T) {
	providers, err := NewProviders(&config.Config{Provider: "gemini"}, zap.NewNop())

	require.NoError(t, err)
	require.NotNil(t, providers.Chat)

	reply, err := providers.Chat.Generate(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Contains(t, reply, "GEMINI_API_KEY")
	assert.Contains(t, reply, "gemini")
}

func TestNewProviders_GroqMissingKey(t *testing.T) {
	providers, err := NewProviders(&config.Config{Provider: "groq"}, zap.NewNop())

	require.NoError(t, err)

	reply, err := providers.Chat.Generate(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Contains(t, reply, "GROQ_API_KEY")

	_, err = providers.Transcriber.Transcribe(context.Background(), []byte("x"), "audio/webm")
	assert.Error(t, err)

	_, err = providers.Vision.Analyze(context.Background(), []byte("x"), "image/png")
	assert.Error(t, err)
}

func TestNewProviders_UnknownProvider(t *testing.T) {
	_, err := NewProviders(&config.Config{Provider: "mystery"}, zap.NewNop())

	assert.Error(t, err)
}
