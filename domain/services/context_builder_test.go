package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/config"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

func newTestNode(t *testing.T, c *aggregates.Canvas, kind entities.NodeKind, payload entities.Payload, x float64) *entities.Node {
	t.Helper()
	node, err := entities.NewNode(kind, valueobjects.NewPosition(x, 0), payload)
	require.NoError(t, err)
	require.NoError(t, c.AddNode(node))
	return node
}

func TestContextBuilder_Build_JoinsSourcesWithSeparator(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	builder := NewContextBuilder(cfg)
	c := aggregates.NewCanvas("test")

	text := newTestNode(t, c, entities.KindText, &entities.TextPayload{Content: "first note"}, 0)
	video := newTestNode(t, c, entities.KindVideo, &entities.VideoPayload{
		SourceURL: "https://youtube.com/watch?v=a", Title: "Clip", Transcript: "hello",
	}, 400)
	chat := newTestNode(t, c, entities.KindChat, &entities.ChatPayload{}, 800)

	_, err := c.Connect(text.ID(), chat.ID())
	require.NoError(t, err)
	_, err = c.Connect(video.ID(), chat.ID())
	require.NoError(t, err)

	context := builder.Build(c, chat.ID())

	assert.Contains(t, context, "first note")
	assert.Contains(t, context, "Clip")
	assert.Contains(t, context, cfg.ContextBlockSeparator)
	assert.Equal(t, 2, builder.SourceCount(c, chat.ID()))
}

func TestContextBuilder_Build_EmptyWithoutSources(t *testing.T) {
	builder := NewContextBuilder(nil)
	c := aggregates.NewCanvas("test")
	chat := newTestNode(t, c, entities.KindChat, &entities.ChatPayload{}, 0)

	assert.Equal(t, "", builder.Build(c, chat.ID()))
	assert.Equal(t, 0, builder.SourceCount(c, chat.ID()))
}

func TestContextBuilder_Build_SkipsEmptySources(t *testing.T) {
	builder := NewContextBuilder(nil)
	c := aggregates.NewCanvas("test")

	empty := newTestNode(t, c, entities.KindText, &entities.TextPayload{Content: ""}, 0)
	chat := newTestNode(t, c, entities.KindChat, &entities.ChatPayload{}, 400)

	_, err := c.Connect(empty.ID(), chat.ID())
	require.NoError(t, err)

	assert.Equal(t, "", builder.Build(c, chat.ID()))
}

func TestContextBuilder_Build_GroupContentIncludesMembers(t *testing.T) {
	builder := NewContextBuilder(nil)
	c := aggregates.NewCanvas("test")

	group := newTestNode(t, c, entities.KindGroup, &entities.GroupPayload{
		Title: "Research", Box: valueobjects.NewSize(600, 400),
	}, 0)
	newTestNode(t, c, entities.KindText, &entities.TextPayload{
		Content: "inside the group", Box: valueobjects.NewSize(200, 100),
	}, 50)
	chat := newTestNode(t, c, entities.KindChat, &entities.ChatPayload{}, 2000)

	_, err := c.Connect(group.ID(), chat.ID())
	require.NoError(t, err)

	context := builder.Build(c, chat.ID())

	assert.Contains(t, context, "Research")
	assert.Contains(t, context, "inside the group")
}

func TestHistoryText_SkipsSystemMessages(t *testing.T) {
	payload := &entities.ChatPayload{Messages: []entities.ChatMessage{
		{Role: entities.RoleSystem, Content: "system prompt"},
		{Role: entities.RoleUser, Content: "question"},
		{Role: entities.RoleModel, Content: "answer"},
	}}

	history := HistoryText(payload)

	assert.NotContains(t, history, "system prompt")
	assert.Contains(t, history, "question")
	assert.Contains(t, history, "answer")
}
