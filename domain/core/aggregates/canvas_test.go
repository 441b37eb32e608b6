package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

func addNode(t *testing.T, c *Canvas, kind entities.NodeKind, x, y float64) *entities.Node {
	t.Helper()

	var payload entities.Payload
	switch kind {
	case entities.KindText:
		payload = &entities.TextPayload{Content: "note", Box: valueobjects.NewSize(240, 140)}
	case entities.KindChat:
		payload = &entities.ChatPayload{}
	case entities.KindGroup:
		payload = &entities.GroupPayload{Title: "group", Box: valueobjects.NewSize(400, 300)}
	case entities.KindVideo:
		payload = &entities.VideoPayload{SourceURL: "https://youtube.com/watch?v=x", Title: "clip"}
	default:
		t.Fatalf("unsupported kind in helper: %s", kind)
	}

	node, err := entities.NewNode(kind, valueobjects.NewPosition(x, y), payload)
	require.NoError(t, err)
	require.NoError(t, c.AddNode(node))
	return node
}

func TestCanvas_Connect_Success(t *testing.T) {
	c := NewCanvas("test")
	text := addNode(t, c, entities.KindText, 0, 0)
	chat := addNode(t, c, entities.KindChat, 500, 0)

	edge, err := c.Connect(text.ID(), chat.ID())

	require.NoError(t, err)
	assert.True(t, edge.SourceID.Equals(text.ID()))
	assert.True(t, edge.TargetID.Equals(chat.ID()))
	assert.Equal(t, 1, c.EdgeCount())
}

func TestCanvas_Connect_RejectsChatSource(t *testing.T) {
	c := NewCanvas("test")
	chatA := addNode(t, c, entities.KindChat, 0, 0)
	chatB := addNode(t, c, entities.KindChat, 500, 0)

	_, err := c.Connect(chatA.ID(), chatB.ID())

	assert.Error(t, err)
	assert.Equal(t, 0, c.EdgeCount())
}

func TestCanvas_Connect_RejectsNonChatTarget(t *testing.T) {
	c := NewCanvas("test")
	text := addNode(t, c, entities.KindText, 0, 0)
	video := addNode(t, c, entities.KindVideo, 500, 0)

	_, err := c.Connect(text.ID(), video.ID())

	assert.Error(t, err)
}

func TestCanvas_Connect_RejectsSelfLoop(t *testing.T) {
	c := NewCanvas("test")
	chat := addNode(t, c, entities.KindChat, 0, 0)

	_, err := c.Connect(chat.ID(), chat.ID())

	assert.Error(t, err)
}

func TestCanvas_Connect_RejectsDuplicate(t *testing.T) {
	c := NewCanvas("test")
	text := addNode(t, c, entities.KindText, 0, 0)
	chat := addNode(t, c, entities.KindChat, 500, 0)

	_, err := c.Connect(text.ID(), chat.ID())
	require.NoError(t, err)

	_, err = c.Connect(text.ID(), chat.ID())
	assert.Error(t, err)
	assert.Equal(t, 1, c.EdgeCount())
}

func TestCanvas_Connect_MissingNodes(t *testing.T) {
	c := NewCanvas("test")
	chat := addNode(t, c, entities.KindChat, 0, 0)

	_, err := c.Connect(valueobjects.NewNodeID(), chat.ID())
	assert.Error(t, err)

	_, err = c.Connect(chat.ID(), valueobjects.NewNodeID())
	assert.Error(t, err)
}

func TestCanvas_RemoveNode_CascadesEdges(t *testing.T) {
	c := NewCanvas("test")
	text := addNode(t, c, entities.KindText, 0, 0)
	video := addNode(t, c, entities.KindVideo, 300, 0)
	chat := addNode(t, c, entities.KindChat, 600, 0)

	_, err := c.Connect(text.ID(), chat.ID())
	require.NoError(t, err)
	_, err = c.Connect(video.ID(), chat.ID())
	require.NoError(t, err)

	require.NoError(t, c.RemoveNode(chat.ID()))

	assert.False(t, c.HasNode(chat.ID()))
	assert.Equal(t, 0, c.EdgeCount())
	assert.Equal(t, 2, c.NodeCount())
}

func TestCanvas_RemoveNode_SourceOnlyDropsItsEdges(t *testing.T) {
	c := NewCanvas("test")
	text := addNode(t, c, entities.KindText, 0, 0)
	video := addNode(t, c, entities.KindVideo, 300, 0)
	chat := addNode(t, c, entities.KindChat, 600, 0)

	_, err := c.Connect(text.ID(), chat.ID())
	require.NoError(t, err)
	_, err = c.Connect(video.ID(), chat.ID())
	require.NoError(t, err)

	require.NoError(t, c.RemoveNode(text.ID()))

	assert.Equal(t, 1, c.EdgeCount())
	sources := c.ConnectedSources(chat.ID())
	require.Len(t, sources, 1)
	assert.True(t, sources[0].ID().Equals(video.ID()))
}

func TestCanvas_ConnectedSources_OrderedByConnectionTime(t *testing.T) {
	c := NewCanvas("test")
	first := addNode(t, c, entities.KindText, 0, 0)
	second := addNode(t, c, entities.KindVideo, 300, 0)
	chat := addNode(t, c, entities.KindChat, 600, 0)

	_, err := c.Connect(first.ID(), chat.ID())
	require.NoError(t, err)
	_, err = c.Connect(second.ID(), chat.ID())
	require.NoError(t, err)

	sources := c.ConnectedSources(chat.ID())

	require.Len(t, sources, 2)
	assert.True(t, sources[0].ID().Equals(first.ID()))
	assert.True(t, sources[1].ID().Equals(second.ID()))
}

func TestCanvas_UpdateNodePayload_MissingNodeIsNoOp(t *testing.T) {
	c := NewCanvas("test")

	err := c.UpdateNodePayload(valueobjects.NewNodeID(), &entities.TextPayload{Content: "late"}, entities.StatusReady)

	assert.NoError(t, err)
}

func TestCanvas_RecomputeGroups_MembershipFollowsMoves(t *testing.T) {
	c := NewCanvas("test")
	group := addNode(t, c, entities.KindGroup, 0, 0)
	text := addNode(t, c, entities.KindText, 50, 50)

	payload := group.Payload().(*entities.GroupPayload)
	require.Len(t, payload.MemberIDs, 1)
	assert.True(t, payload.MemberIDs[0].Equals(text.ID()))

	// Moving the node out of the group's box drops it from membership.
	require.NoError(t, c.MoveNode(text.ID(), valueobjects.NewPosition(2000, 2000)))
	assert.Empty(t, payload.MemberIDs)

	// Moving it back restores membership.
	require.NoError(t, c.MoveNode(text.ID(), valueobjects.NewPosition(80, 60)))
	require.Len(t, payload.MemberIDs, 1)
}

func TestCanvas_RecomputeGroups_PartialOverlapIsNotMembership(t *testing.T) {
	c := NewCanvas("test")
	group := addNode(t, c, entities.KindGroup, 0, 0)

	// A text box straddling the group border is not contained.
	addNodeAt := func(x, y float64) *entities.Node {
		return addNode(t, c, entities.KindText, x, y)
	}
	straddling := addNodeAt(300, 100)

	payload := group.Payload().(*entities.GroupPayload)
	for _, id := range payload.MemberIDs {
		assert.False(t, id.Equals(straddling.ID()))
	}
}

func TestCanvas_RecomputeGroups_GroupsNeverContainGroups(t *testing.T) {
	c := NewCanvas("test")
	outer := addNode(t, c, entities.KindGroup, 0, 0)

	inner, err := entities.NewNode(entities.KindGroup, valueobjects.NewPosition(10, 10),
		&entities.GroupPayload{Title: "inner", Box: valueobjects.NewSize(100, 80)})
	require.NoError(t, err)
	require.NoError(t, c.AddNode(inner))

	payload := outer.Payload().(*entities.GroupPayload)
	assert.Empty(t, payload.MemberIDs)
}

func TestCanvas_ResizeNode_RecomputesGroups(t *testing.T) {
	c := NewCanvas("test")
	group := addNode(t, c, entities.KindGroup, 0, 0)
	text := addNode(t, c, entities.KindText, 50, 50)

	payload := group.Payload().(*entities.GroupPayload)
	require.Len(t, payload.MemberIDs, 1)

	// Shrinking the group below the text box evicts the member.
	require.NoError(t, c.ResizeNode(group.ID(), valueobjects.NewSize(60, 60)))
	assert.Empty(t, payload.MemberIDs)
	_ = text
}

func TestCanvas_Events_EmittedAndCommitted(t *testing.T) {
	c := NewCanvas("test")
	text := addNode(t, c, entities.KindText, 0, 0)
	chat := addNode(t, c, entities.KindChat, 500, 0)

	_, err := c.Connect(text.ID(), chat.ID())
	require.NoError(t, err)

	events := c.GetUncommittedEvents()
	assert.NotEmpty(t, events)

	c.MarkEventsAsCommitted()
	assert.Empty(t, c.GetUncommittedEvents())
}
