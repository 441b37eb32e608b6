package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	domainservices "canvas-backend/domain/services"
	infraevents "canvas-backend/infrastructure/events"
	"canvas-backend/infrastructure/persistence/memory"
)

type fakeChatModel struct {
	reply       string
	err         error
	lastContext string
	lastHistory []entities.ChatMessage
}

func (m *fakeChatModel) Generate(_ context.Context, history []entities.ChatMessage, contextText string) (string, error) {
	m.lastHistory = history
	m.lastContext = contextText
	return m.reply, m.err
}

func (m *fakeChatModel) Provider() string { return "fake" }

type chatFixture struct {
	repo    *memory.CanvasRepository
	model   *fakeChatModel
	handler *PostChatMessageHandler
	canvas  *aggregates.Canvas
}

func newChatFixture(t *testing.T, model *fakeChatModel) *chatFixture {
	t.Helper()
	logger := zap.NewNop()
	repo := memory.NewCanvasRepository(logger)
	bus := infraevents.NewMemoryEventBus(logger)
	handler := NewPostChatMessageHandler(repo, bus, model, domainservices.NewContextBuilder(nil), logger)

	canvas, err := repo.GetOrCreateDefault(context.Background())
	require.NoError(t, err)

	return &chatFixture{repo: repo, model: model, handler: handler, canvas: canvas}
}

func (f *chatFixture) place(t *testing.T, kind entities.NodeKind, payload entities.Payload, x float64) *entities.Node {
	t.Helper()
	node, err := entities.NewNode(kind, valueobjects.NewPosition(x, 0), payload)
	require.NoError(t, err)
	err = f.repo.Update(context.Background(), f.canvas.ID(), func(c *aggregates.Canvas) error {
		return c.AddNode(node)
	})
	require.NoError(t, err)
	return node
}

func (f *chatFixture) messages(t *testing.T, id valueobjects.NodeID) []entities.ChatMessage {
	t.Helper()
	var messages []entities.ChatMessage
	err := f.repo.View(context.Background(), f.canvas.ID(), func(c *aggregates.Canvas) error {
		node := c.Node(id)
		require.NotNil(t, node)
		messages = node.Payload().(*entities.ChatPayload).Messages
		return nil
	})
	require.NoError(t, err)
	return messages
}

func TestPostChatMessageHandler_AppendsUserAndModelMessages(t *testing.T) {
	f := newChatFixture(t, &fakeChatModel{reply: "the answer"})
	chat := f.place(t, entities.KindChat, &entities.ChatPayload{}, 0)

	reply, err := f.handler.Handle(context.Background(), PostChatMessageCommand{
		NodeID:  chat.ID().String(),
		Content: "the question",
	})

	require.NoError(t, err)
	assert.Equal(t, "the answer", reply)

	messages := f.messages(t, chat.ID())
	require.Len(t, messages, 2)
	assert.Equal(t, entities.RoleUser, messages[0].Role)
	assert.Equal(t, "the question", messages[0].Content)
	assert.Equal(t, entities.RoleModel, messages[1].Role)
	assert.Equal(t, "the answer", messages[1].Content)
}

func TestPostChatMessageHandler_SendsConnectedContext(t *testing.T) {
	model := &fakeChatModel{reply: "ok"}
	f := newChatFixture(t, model)
	text := f.place(t, entities.KindText, &entities.TextPayload{Content: "background facts"}, 600)
	chat := f.place(t, entities.KindChat, &entities.ChatPayload{}, 0)

	err := f.repo.Update(context.Background(), f.canvas.ID(), func(c *aggregates.Canvas) error {
		_, err := c.Connect(text.ID(), chat.ID())
		return err
	})
	require.NoError(t, err)

	_, err = f.handler.Handle(context.Background(), PostChatMessageCommand{
		NodeID:  chat.ID().String(),
		Content: "question",
	})

	require.NoError(t, err)
	assert.Contains(t, model.lastContext, "background facts")
	require.NotEmpty(t, model.lastHistory)
	assert.Equal(t, "question", model.lastHistory[len(model.lastHistory)-1].Content)
}

func TestPostChatMessageHandler_NoSourcesSendsEmptyContext(t *testing.T) {
	model := &fakeChatModel{reply: "ok"}
	f := newChatFixture(t, model)
	chat := f.place(t, entities.KindChat, &entities.ChatPayload{}, 0)

	_, err := f.handler.Handle(context.Background(), PostChatMessageCommand{
		NodeID:  chat.ID().String(),
		Content: "question",
	})

	require.NoError(t, err)
	assert.Equal(t, "", model.lastContext)
}

func TestPostChatMessageHandler_ModelFailureKeepsUserMessage(t *testing.T) {
	f := newChatFixture(t, &fakeChatModel{err: errors.New("provider down")})
	chat := f.place(t, entities.KindChat, &entities.ChatPayload{}, 0)

	_, err := f.handler.Handle(context.Background(), PostChatMessageCommand{
		NodeID:  chat.ID().String(),
		Content: "question",
	})

	assert.Error(t, err)

	// The user's message is committed before the model call and survives it.
	messages := f.messages(t, chat.ID())
	require.Len(t, messages, 1)
	assert.Equal(t, entities.RoleUser, messages[0].Role)
}

func TestPostChatMessageHandler_MissingNode(t *testing.T) {
	f := newChatFixture(t, &fakeChatModel{reply: "ok"})

	_, err := f.handler.Handle(context.Background(), PostChatMessageCommand{
		NodeID:  valueobjects.NewNodeID().String(),
		Content: "question",
	})

	assert.Error(t, err)
}

func TestPostChatMessageHandler_NonChatNodeRejected(t *testing.T) {
	f := newChatFixture(t, &fakeChatModel{reply: "ok"})
	text := f.place(t, entities.KindText, &entities.TextPayload{Content: "n"}, 0)

	_, err := f.handler.Handle(context.Background(), PostChatMessageCommand{
		NodeID:  text.ID().String(),
		Content: "question",
	})

	assert.Error(t, err)
}
