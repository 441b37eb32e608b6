package services

import (
	"strings"

	"canvas-backend/domain/config"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// ContextBuilder assembles the context text sent to the model alongside a
// chat node's conversation: the content of every connected source node,
// rendered and joined with the configured separator.
type ContextBuilder struct {
	cfg *config.DomainConfig
}

// NewContextBuilder creates a context builder
func NewContextBuilder(cfg *config.DomainConfig) *ContextBuilder {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ContextBuilder{cfg: cfg}
}

// Build renders the connected-source context for a chat node. Returns the
// empty string when the chat has no connected sources, in which case no
// context wrapper is sent at all.
func (b *ContextBuilder) Build(canvas *aggregates.Canvas, chatID valueobjects.NodeID) string {
	blocks := b.blocks(canvas, chatID)
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, b.cfg.ContextBlockSeparator)
}

// blocks renders each connected source as a text block, skipping sources
// whose content is empty
func (b *ContextBuilder) blocks(canvas *aggregates.Canvas, chatID valueobjects.NodeID) []string {
	lookup := canvas.Lookup()
	sources := canvas.ConnectedSources(chatID)

	blocks := make([]string, 0, len(sources))
	for _, source := range sources {
		if text := source.ContextText(lookup); text != "" {
			blocks = append(blocks, text)
		}
	}
	return blocks
}

// SourceCount returns how many connected sources contribute a non-empty block
func (b *ContextBuilder) SourceCount(canvas *aggregates.Canvas, chatID valueobjects.NodeID) int {
	return len(b.blocks(canvas, chatID))
}

// HistoryText flattens a chat's conversation for token estimation. System
// messages are counted separately via the configured system prompt.
func HistoryText(payload *entities.ChatPayload) string {
	var sb strings.Builder
	for _, msg := range payload.Messages {
		if msg.Role == entities.RoleSystem {
			continue
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
