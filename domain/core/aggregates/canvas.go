package aggregates

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"canvas-backend/domain/config"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	"canvas-backend/domain/events"
	pkgerrors "canvas-backend/pkg/errors"
)

// CanvasID represents a unique canvas identifier
type CanvasID string

// NewCanvasID creates a new random CanvasID
func NewCanvasID() CanvasID {
	return CanvasID(uuid.New().String())
}

// String returns the string representation
func (id CanvasID) String() string {
	return string(id)
}

// Canvas is the aggregate root for one infinite canvas: the nodes placed on
// it and the directed connections feeding chat nodes. It is the consistency
// boundary for connection invariants and group membership.
type Canvas struct {
	id        CanvasID
	name      string
	nodes     map[valueobjects.NodeID]*entities.Node
	edges     map[string]*Edge
	createdAt time.Time
	updatedAt time.Time
	events    []events.DomainEvent
}

// Edge is a directed connection from a source node into a chat node
type Edge struct {
	ID        string              `json:"id"`
	SourceID  valueobjects.NodeID `json:"source_id"`
	TargetID  valueobjects.NodeID `json:"target_id"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewCanvas creates a new canvas aggregate
func NewCanvas(name string) *Canvas {
	if name == "" {
		name = config.DefaultDomainConfig().DefaultCanvasName
	}

	now := time.Now()
	return &Canvas{
		id:        NewCanvasID(),
		name:      name,
		nodes:     make(map[valueobjects.NodeID]*entities.Node),
		edges:     make(map[string]*Edge),
		createdAt: now,
		updatedAt: now,
		events:    []events.DomainEvent{},
	}
}

// ID returns the canvas identifier
func (c *Canvas) ID() CanvasID {
	return c.id
}

// Name returns the canvas display name
func (c *Canvas) Name() string {
	return c.name
}

// CreatedAt returns when the canvas was created
func (c *Canvas) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the canvas last changed
func (c *Canvas) UpdatedAt() time.Time {
	return c.updatedAt
}

// AddNode places a node on the canvas using the default configuration
func (c *Canvas) AddNode(node *entities.Node) error {
	return c.AddNodeWithConfig(node, config.DefaultDomainConfig())
}

// AddNodeWithConfig places a node on the canvas
func (c *Canvas) AddNodeWithConfig(node *entities.Node, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if node == nil {
		return pkgerrors.NewValidationError("node cannot be nil")
	}
	if _, exists := c.nodes[node.ID()]; exists {
		return pkgerrors.NewConflictError("node already on canvas")
	}
	if len(c.nodes) >= cfg.MaxNodesPerCanvas {
		return fmt.Errorf("maximum nodes reached: %d", cfg.MaxNodesPerCanvas)
	}

	c.nodes[node.ID()] = node
	c.touch()
	c.RecomputeGroups()

	return nil
}

// Node returns the node with the given id, or nil
func (c *Canvas) Node(id valueobjects.NodeID) *entities.Node {
	return c.nodes[id]
}

// HasNode reports whether a node with the given id is on the canvas
func (c *Canvas) HasNode(id valueobjects.NodeID) bool {
	_, ok := c.nodes[id]
	return ok
}

// Nodes returns all nodes on the canvas
func (c *Canvas) Nodes() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(c.nodes))
	for _, node := range c.nodes {
		nodes = append(nodes, node)
	}
	return nodes
}

// NodeCount returns the number of nodes on the canvas
func (c *Canvas) NodeCount() int {
	return len(c.nodes)
}

// Lookup returns a resolver over the canvas's nodes, used for group content
// recursion and context building
func (c *Canvas) Lookup() entities.NodeLookup {
	return func(id valueobjects.NodeID) *entities.Node {
		return c.nodes[id]
	}
}

// MoveNode moves a node and recomputes group membership. Group membership is
// derived from bounding-box containment on every move so it never goes stale.
func (c *Canvas) MoveNode(id valueobjects.NodeID, position valueobjects.Position) error {
	node, ok := c.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node")
	}

	node.MoveTo(position)
	c.touch()
	c.RecomputeGroups()

	return nil
}

// ResizeNode resizes a node's box and recomputes group membership
func (c *Canvas) ResizeNode(id valueobjects.NodeID, size valueobjects.Size) error {
	node, ok := c.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node")
	}

	if err := node.Resize(size); err != nil {
		return err
	}
	c.touch()
	c.RecomputeGroups()

	return nil
}

// UpdateNodePayload replaces a node's payload by id. A missing id is a
// no-op: late enrichment completions for nodes deleted mid-fetch land here
// and are absorbed.
func (c *Canvas) UpdateNodePayload(id valueobjects.NodeID, payload entities.Payload, status entities.NodeStatus) error {
	node, ok := c.nodes[id]
	if !ok {
		return nil
	}

	if err := node.UpdatePayload(payload, status); err != nil {
		return err
	}
	c.touch()

	return nil
}

// RemoveNode deletes a node and cascades removal of every edge referencing it
func (c *Canvas) RemoveNode(id valueobjects.NodeID) error {
	node, ok := c.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node")
	}

	delete(c.nodes, id)
	c.removeEdgesForNode(id)
	c.touch()
	c.RecomputeGroups()

	c.addEvent(events.NewNodeRemoved(node.ID(), c.updatedAt))

	return nil
}

// Connect commits an edge using the default configuration
func (c *Canvas) Connect(sourceID, targetID valueobjects.NodeID) (*Edge, error) {
	return c.ConnectWithConfig(sourceID, targetID, config.DefaultDomainConfig())
}

// ConnectWithConfig commits a directed edge from source to target. Invariants:
// no self-loop, no duplicate (source, target) pair, target must be a chat
// node and the source must not be one.
func (c *Canvas) ConnectWithConfig(sourceID, targetID valueobjects.NodeID, cfg *config.DomainConfig) (*Edge, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if !cfg.AllowSelfConnections && sourceID.Equals(targetID) {
		return nil, pkgerrors.NewValidationError("cannot connect node to itself")
	}

	source, ok := c.nodes[sourceID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("source node")
	}
	target, ok := c.nodes[targetID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("target node")
	}

	if !source.Kind().CanConnectTo(target.Kind()) {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("cannot connect %s to %s", source.Kind(), target.Kind()))
	}

	if !cfg.AllowDuplicateEdges {
		for _, edge := range c.edges {
			if edge.SourceID.Equals(sourceID) && edge.TargetID.Equals(targetID) {
				return nil, pkgerrors.NewConflictError("connection already exists")
			}
		}
	}

	if len(c.edges) >= cfg.MaxEdgesPerCanvas {
		return nil, fmt.Errorf("maximum edges reached: %d", cfg.MaxEdgesPerCanvas)
	}

	edge := &Edge{
		ID:        uuid.New().String(),
		SourceID:  sourceID,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	}
	c.edges[edge.ID] = edge
	c.touch()

	c.addEvent(events.NewNodesConnected(edge.ID, sourceID, targetID, c.updatedAt))

	return edge, nil
}

// Disconnect removes the edge with the given id
func (c *Canvas) Disconnect(edgeID string) error {
	edge, ok := c.edges[edgeID]
	if !ok {
		return pkgerrors.NewNotFoundError("connection")
	}

	delete(c.edges, edgeID)
	c.touch()

	c.addEvent(events.NewNodesDisconnected(edge.ID, edge.SourceID, edge.TargetID, c.updatedAt))

	return nil
}

// Edges returns all edges on the canvas
func (c *Canvas) Edges() []*Edge {
	edges := make([]*Edge, 0, len(c.edges))
	for _, edge := range c.edges {
		edges = append(edges, edge)
	}
	return edges
}

// EdgeCount returns the number of edges on the canvas
func (c *Canvas) EdgeCount() int {
	return len(c.edges)
}

// EdgesFor returns every edge referencing the node as source or target
func (c *Canvas) EdgesFor(id valueobjects.NodeID) []*Edge {
	edges := []*Edge{}
	for _, edge := range c.edges {
		if edge.SourceID.Equals(id) || edge.TargetID.Equals(id) {
			edges = append(edges, edge)
		}
	}
	return edges
}

// ConnectedSources returns the nodes feeding into a chat node, ordered by
// connection time so context blocks are stable across recomputations
func (c *Canvas) ConnectedSources(chatID valueobjects.NodeID) []*entities.Node {
	type connected struct {
		node *entities.Node
		at   time.Time
	}
	found := []connected{}
	for _, edge := range c.edges {
		if !edge.TargetID.Equals(chatID) {
			continue
		}
		if node, ok := c.nodes[edge.SourceID]; ok {
			found = append(found, connected{node: node, at: edge.CreatedAt})
		}
	}

	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && found[j].at.Before(found[j-1].at); j-- {
			found[j], found[j-1] = found[j-1], found[j]
		}
	}

	nodes := make([]*entities.Node, len(found))
	for i, f := range found {
		nodes[i] = f.node
	}
	return nodes
}

// ChatNodes returns all chat nodes on the canvas
func (c *Canvas) ChatNodes() []*entities.Node {
	chats := []*entities.Node{}
	for _, node := range c.nodes {
		if node.Kind() == entities.KindChat {
			chats = append(chats, node)
		}
	}
	return chats
}

// RecomputeGroups rebuilds every group node's membership from bounding-box
// containment. Groups never contain other groups, which keeps content
// recursion finite.
func (c *Canvas) RecomputeGroups() {
	for _, node := range c.nodes {
		group, ok := node.Payload().(*entities.GroupPayload)
		if !ok {
			continue
		}

		bounds := node.Bounds()
		members := []valueobjects.NodeID{}
		for _, candidate := range c.nodes {
			if candidate.ID().Equals(node.ID()) || candidate.Kind() == entities.KindGroup {
				continue
			}
			if bounds.ContainsRect(candidate.Bounds()) {
				members = append(members, candidate.ID())
			}
		}
		group.MemberIDs = members
	}
}

// removeEdgesForNode drops every edge referencing the node id
func (c *Canvas) removeEdgesForNode(id valueobjects.NodeID) {
	for edgeID, edge := range c.edges {
		if edge.SourceID.Equals(id) || edge.TargetID.Equals(id) {
			delete(c.edges, edgeID)
			c.addEvent(events.NewNodesDisconnected(edge.ID, edge.SourceID, edge.TargetID, time.Now()))
		}
	}
}

// GetUncommittedEvents returns canvas-level events plus node events
func (c *Canvas) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, 0, len(c.events))
	all = append(all, c.events...)
	for _, node := range c.nodes {
		all = append(all, node.GetUncommittedEvents()...)
	}
	return all
}

// MarkEventsAsCommitted clears uncommitted events on the canvas and its nodes
func (c *Canvas) MarkEventsAsCommitted() {
	c.events = []events.DomainEvent{}
	for _, node := range c.nodes {
		node.MarkEventsAsCommitted()
	}
}

func (c *Canvas) addEvent(event events.DomainEvent) {
	c.events = append(c.events, event)
}

func (c *Canvas) touch() {
	c.updatedAt = time.Now()
}
