package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/config"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
)

func TestContextEstimator_EstimateTokens(t *testing.T) {
	e := NewContextEstimator(nil)

	assert.Equal(t, 0, e.EstimateTokens(""))
	assert.Equal(t, 1, e.EstimateTokens("abc"))
	assert.Equal(t, 1, e.EstimateTokens("abcd"))
	assert.Equal(t, 2, e.EstimateTokens("abcde"))
	assert.Equal(t, 3, e.EstimateTokens("hello world"))
}

func TestContextEstimator_EstimateTokens_Monotone(t *testing.T) {
	e := NewContextEstimator(nil)

	short := e.EstimateTokens(strings.Repeat("a", 100))
	long := e.EstimateTokens(strings.Repeat("a", 200))

	assert.Greater(t, long, short)
}

func TestContextEstimator_EstimateChat_NoSourcesNoWrapper(t *testing.T) {
	e := NewContextEstimator(nil)
	c := aggregates.NewCanvas("test")
	chat := newTestNode(t, c, entities.KindChat, &entities.ChatPayload{Messages: []entities.ChatMessage{
		{Role: entities.RoleUser, Content: "hi"},
	}}, 0)

	usage := e.EstimateChat(c, chat, "prompt", "gemini")

	// system prompt + history only; no context, no wrapper overhead
	expected := e.EstimateTokens("prompt") + e.EstimateTokens("hi\n")
	assert.Equal(t, expected, usage.Tokens)
	assert.Equal(t, 0, usage.SourceCount)
}

func TestContextEstimator_EstimateChat_WrapperOnlyWithSources(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	e := NewContextEstimator(cfg)
	c := aggregates.NewCanvas("test")

	chat := newTestNode(t, c, entities.KindChat, &entities.ChatPayload{}, 0)
	bare := e.EstimateChat(c, chat, "prompt", "gemini")

	text := newTestNode(t, c, entities.KindText, &entities.TextPayload{Content: "source content"}, 600)
	_, err := c.Connect(text.ID(), chat.ID())
	require.NoError(t, err)

	connected := e.EstimateChat(c, chat, "prompt", "gemini")

	wrapperTokens := (cfg.ContextWrapperOverhead + cfg.CharsPerToken - 1) / cfg.CharsPerToken
	assert.Equal(t, 1, connected.SourceCount)
	assert.Equal(t,
		bare.Tokens+e.EstimateTokens("source content")+wrapperTokens,
		connected.Tokens,
	)
}

func TestContextEstimator_ProviderLimits(t *testing.T) {
	e := NewContextEstimator(nil)
	c := aggregates.NewCanvas("test")
	chat := newTestNode(t, c, entities.KindChat, &entities.ChatPayload{}, 0)

	gemini := e.EstimateChat(c, chat, "", "gemini")
	groq := e.EstimateChat(c, chat, "", "groq")
	unknown := e.EstimateChat(c, chat, "", "mystery")

	assert.Equal(t, 1048576, gemini.Limit)
	assert.Equal(t, 131072, groq.Limit)
	assert.Equal(t, 1048576, unknown.Limit)
}

func TestContextEstimator_EstimateCanvas_MaxPercentWins(t *testing.T) {
	e := NewContextEstimator(nil)
	c := aggregates.NewCanvas("test")

	light := newTestNode(t, c, entities.KindChat, &entities.ChatPayload{}, 0)
	heavy := newTestNode(t, c, entities.KindChat, &entities.ChatPayload{Messages: []entities.ChatMessage{
		{Role: entities.RoleUser, Content: strings.Repeat("x", 40000)},
	}}, 600)

	usage := e.EstimateCanvas(c, "", "groq")

	require.Len(t, usage.Chats, 2)
	var heavyPercent float64
	for _, chat := range usage.Chats {
		if chat.NodeID == heavy.ID().String() {
			heavyPercent = chat.Percent
		}
	}
	assert.Equal(t, heavyPercent, usage.Percent)
	assert.Greater(t, usage.Percent, 0.0)
	_ = light
}

func TestContextEstimator_PercentClampedAt100(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.ProviderTokenLimits = map[string]int{"tiny": 10}
	cfg.DefaultProvider = "tiny"
	e := NewContextEstimator(cfg)
	c := aggregates.NewCanvas("test")

	newTestNode(t, c, entities.KindChat, &entities.ChatPayload{Messages: []entities.ChatMessage{
		{Role: entities.RoleUser, Content: strings.Repeat("x", 1000)},
	}}, 0)

	usage := e.EstimateCanvas(c, "", "tiny")

	assert.Equal(t, 100.0, usage.Percent)
}
