package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canvas-backend/application/commands"
	"canvas-backend/application/queries"
	queryhandlers "canvas-backend/application/queries/handlers"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	domainservices "canvas-backend/domain/services"
	infraevents "canvas-backend/infrastructure/events"
	"canvas-backend/infrastructure/persistence/memory"
)

type noopEnricher struct{}

func (noopEnricher) EnrichVideo(aggregates.CanvasID, valueobjects.NodeID, string) {}
func (noopEnricher) FetchPage(aggregates.CanvasID, valueobjects.NodeID, string)   {}
func (noopEnricher) ExtractFile(aggregates.CanvasID, valueobjects.NodeID, string, string, []byte) {
}
func (noopEnricher) AnalyzeImage(aggregates.CanvasID, valueobjects.NodeID, string, string, string) {
}
func (noopEnricher) TranscribeRecording(aggregates.CanvasID, valueobjects.NodeID, int, []byte, string) {
}

type echoModel struct {
	lastContext string
}

func (m *echoModel) Generate(_ context.Context, history []entities.ChatMessage, contextText string) (string, error) {
	m.lastContext = contextText
	return "echo: " + history[len(history)-1].Content, nil
}

func (m *echoModel) Provider() string { return "echo" }

// app wires the command and query sides against a shared in-memory canvas,
// the same way the container does at startup.
type app struct {
	creator   *commands.CreateNodeHandler
	mover     *commands.MoveNodeHandler
	connector *commands.ConnectNodesHandler
	deleter   *commands.DeleteNodeHandler
	chat      *commands.PostChatMessageHandler
	model     *echoModel
	snapshots *queryhandlers.GetCanvasHandler
	usage     *queryhandlers.GetContextUsageHandler
}

func newApp(t *testing.T) *app {
	t.Helper()

	logger := zap.NewNop()
	repo := memory.NewCanvasRepository(logger)
	bus := infraevents.NewMemoryEventBus(logger)
	model := &echoModel{}

	return &app{
		creator:   commands.NewCreateNodeHandler(repo, bus, noopEnricher{}, logger),
		mover:     commands.NewMoveNodeHandler(repo, bus, logger),
		connector: commands.NewConnectNodesHandler(repo, bus, logger),
		deleter:   commands.NewDeleteNodeHandler(repo, bus, logger),
		chat:      commands.NewPostChatMessageHandler(repo, bus, model, domainservices.NewContextBuilder(nil), logger),
		model:     model,
		snapshots: queryhandlers.NewGetCanvasHandler(repo, logger),
		usage: queryhandlers.NewGetContextUsageHandler(
			repo, domainservices.NewContextEstimator(nil), "system prompt", "gemini", logger,
		),
	}
}

func (a *app) snapshot(t *testing.T) *queries.CanvasSnapshot {
	t.Helper()
	snapshot, err := a.snapshots.Handle(context.Background(), queries.GetCanvasQuery{})
	require.NoError(t, err)
	return snapshot
}

func TestCanvasFlow_CreateConnectChat(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	text, err := a.creator.Handle(ctx, commands.CreateNodeCommand{
		Kind: "text", X: 0, Y: 0, Content: "reference material",
	})
	require.NoError(t, err)

	chat, err := a.creator.Handle(ctx, commands.CreateNodeCommand{
		Kind: "chat", X: 600, Y: 0,
	})
	require.NoError(t, err)

	edge, err := a.connector.Handle(ctx, commands.ConnectNodesCommand{
		SourceID: text.ID().String(),
		TargetID: chat.ID().String(),
	})
	require.NoError(t, err)
	require.NotNil(t, edge)

	reply, err := a.chat.Handle(ctx, commands.PostChatMessageCommand{
		NodeID:  chat.ID().String(),
		Content: "summarize",
	})
	require.NoError(t, err)
	assert.Equal(t, "echo: summarize", reply)
	assert.Contains(t, a.model.lastContext, "reference material")

	snapshot := a.snapshot(t)
	assert.Len(t, snapshot.Nodes, 2)
	require.Len(t, snapshot.Edges, 1)
	assert.Equal(t, text.ID().String(), snapshot.Edges[0].SourceID)
	assert.Equal(t, chat.ID().String(), snapshot.Edges[0].TargetID)
}

func TestCanvasFlow_DeleteSourceCascadesEdgeAndShrinksContext(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	text, err := a.creator.Handle(ctx, commands.CreateNodeCommand{
		Kind: "text", X: 0, Y: 0, Content: "reference material",
	})
	require.NoError(t, err)
	chat, err := a.creator.Handle(ctx, commands.CreateNodeCommand{Kind: "chat", X: 600, Y: 0})
	require.NoError(t, err)
	_, err = a.connector.Handle(ctx, commands.ConnectNodesCommand{
		SourceID: text.ID().String(), TargetID: chat.ID().String(),
	})
	require.NoError(t, err)

	before, err := a.usage.Handle(ctx, queries.GetContextUsageQuery{})
	require.NoError(t, err)
	require.Len(t, before.Chats, 1)
	assert.Equal(t, 1, before.Chats[0].SourceCount)

	err = a.deleter.Handle(ctx, commands.DeleteNodeCommand{NodeID: text.ID().String()})
	require.NoError(t, err)

	snapshot := a.snapshot(t)
	assert.Len(t, snapshot.Nodes, 1)
	assert.Empty(t, snapshot.Edges)

	after, err := a.usage.Handle(ctx, queries.GetContextUsageQuery{})
	require.NoError(t, err)
	require.Len(t, after.Chats, 1)
	assert.Equal(t, 0, after.Chats[0].SourceCount)
	assert.Less(t, after.Chats[0].Tokens, before.Chats[0].Tokens)
}

func TestCanvasFlow_MoveIntoGroupUpdatesMembership(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	group, err := a.creator.Handle(ctx, commands.CreateNodeCommand{
		Kind: "group", X: 0, Y: 0, Title: "research",
	})
	require.NoError(t, err)
	text, err := a.creator.Handle(ctx, commands.CreateNodeCommand{
		Kind: "text", X: 2000, Y: 2000, Content: "stray note",
	})
	require.NoError(t, err)

	err = a.mover.Handle(ctx, commands.MoveNodeCommand{
		NodeID: text.ID().String(), X: 50, Y: 50,
	})
	require.NoError(t, err)

	snapshot := a.snapshot(t)
	found := false
	for _, node := range snapshot.Nodes {
		if node.ID == group.ID().String() {
			found = true
			members := node.Payload.(*entities.GroupPayload).MemberIDs
			require.Len(t, members, 1)
			assert.Equal(t, text.ID().String(), members[0].String())
		}
	}
	assert.True(t, found)
}

func TestCanvasFlow_ChatCannotBeSource(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	first, err := a.creator.Handle(ctx, commands.CreateNodeCommand{Kind: "chat", X: 0, Y: 0})
	require.NoError(t, err)
	second, err := a.creator.Handle(ctx, commands.CreateNodeCommand{Kind: "chat", X: 600, Y: 0})
	require.NoError(t, err)

	_, err = a.connector.Handle(ctx, commands.ConnectNodesCommand{
		SourceID: first.ID().String(), TargetID: second.ID().String(),
	})

	assert.Error(t, err)
}
