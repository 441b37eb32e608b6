package services

import (
	"canvas-backend/domain/config"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
)

// ContextEstimator approximates how much of the model's context window the
// canvas is consuming. The estimate is character-count based; it tracks the
// same inputs the chat service actually sends (system prompt, conversation
// history, connected-source context and its wrapper) without calling a
// tokenizer.
type ContextEstimator struct {
	cfg     *config.DomainConfig
	builder *ContextBuilder
}

// ChatUsage is the estimate for a single chat node
type ChatUsage struct {
	NodeID      string  `json:"node_id"`
	Tokens      int     `json:"tokens"`
	Limit       int     `json:"limit"`
	Percent     float64 `json:"percent"`
	SourceCount int     `json:"source_count"`
}

// CanvasUsage is the canvas-wide estimate: the worst chat node dominates
type CanvasUsage struct {
	Provider string      `json:"provider"`
	Limit    int         `json:"limit"`
	Percent  float64     `json:"percent"`
	Chats    []ChatUsage `json:"chats"`
}

// NewContextEstimator creates a context estimator
func NewContextEstimator(cfg *config.DomainConfig) *ContextEstimator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ContextEstimator{
		cfg:     cfg,
		builder: NewContextBuilder(cfg),
	}
}

// EstimateTokens approximates the token count of a text as ceil(len/4).
// Monotone in text length, which is all the usage meter needs.
func (e *ContextEstimator) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	chars := len(text)
	perToken := e.cfg.CharsPerToken
	return (chars + perToken - 1) / perToken
}

// EstimateChat estimates the tokens one chat node would send on its next
// message: system prompt, prior conversation, and connected-source context.
// The wrapper overhead applies only when at least one source contributes.
func (e *ContextEstimator) EstimateChat(canvas *aggregates.Canvas, chat *entities.Node, systemPrompt, provider string) ChatUsage {
	limit := e.cfg.TokenLimit(provider)
	usage := ChatUsage{
		NodeID: chat.ID().String(),
		Limit:  limit,
	}

	payload, ok := chat.Payload().(*entities.ChatPayload)
	if !ok {
		return usage
	}

	tokens := e.EstimateTokens(systemPrompt)
	tokens += e.EstimateTokens(HistoryText(payload))

	if context := e.builder.Build(canvas, chat.ID()); context != "" {
		tokens += e.EstimateTokens(context)
		tokens += (e.cfg.ContextWrapperOverhead + e.cfg.CharsPerToken - 1) / e.cfg.CharsPerToken
		usage.SourceCount = e.builder.SourceCount(canvas, chat.ID())
	}

	usage.Tokens = tokens
	usage.Percent = percent(tokens, limit)
	return usage
}

// EstimateCanvas estimates usage for every chat node on the canvas. The
// canvas-wide percent is the maximum across chats, clamped to 100.
func (e *ContextEstimator) EstimateCanvas(canvas *aggregates.Canvas, systemPrompt, provider string) CanvasUsage {
	usage := CanvasUsage{
		Provider: provider,
		Limit:    e.cfg.TokenLimit(provider),
		Chats:    []ChatUsage{},
	}

	for _, chat := range canvas.ChatNodes() {
		chatUsage := e.EstimateChat(canvas, chat, systemPrompt, provider)
		usage.Chats = append(usage.Chats, chatUsage)
		if chatUsage.Percent > usage.Percent {
			usage.Percent = chatUsage.Percent
		}
	}
	return usage
}

func percent(tokens, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	p := float64(tokens) / float64(limit) * 100
	if p > 100 {
		p = 100
	}
	return p
}
