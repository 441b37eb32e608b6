package entities

import (
	"time"

	"canvas-backend/domain/core/valueobjects"
	"canvas-backend/domain/events"
	pkgerrors "canvas-backend/pkg/errors"
)

// NodeStatus represents the enrichment state of a node. Nodes that need
// asynchronous enrichment (video title lookup, document extraction, website
// fetch, image analysis, transcription) are inserted as loading and updated
// in place when the fetch resolves; failures degrade to placeholder content
// instead of removing the node.
type NodeStatus string

const (
	StatusLoading  NodeStatus = "loading"
	StatusReady    NodeStatus = "ready"
	StatusDegraded NodeStatus = "degraded"
)

// defaultKindSizes are the rendered box sizes for kinds whose payload does
// not carry a user-resizable box. Used for group containment checks.
var defaultKindSizes = map[NodeKind]valueobjects.Size{
	KindVideo:    {Width: 320, Height: 220},
	KindDocument: {Width: 280, Height: 180},
	KindWebsite:  {Width: 280, Height: 180},
	KindAudio:    {Width: 280, Height: 160},
	KindImage:    {Width: 280, Height: 220},
	KindChat:     {Width: 380, Height: 420},
}

// Node is the entity representing a typed element placed on the canvas.
// Position is in canvas space; the payload is the kind-specific content.
type Node struct {
	id        valueobjects.NodeID
	kind      NodeKind
	position  valueobjects.Position
	payload   Payload
	status    NodeStatus
	createdAt time.Time
	updatedAt time.Time

	// Domain events that occurred during this entity's lifetime
	events []events.DomainEvent
}

// NewNode creates a node at the given canvas position
func NewNode(kind NodeKind, position valueobjects.Position, payload Payload) (*Node, error) {
	if !kind.Valid() {
		return nil, pkgerrors.NewValidationError("unknown node kind: " + string(kind))
	}
	if payload == nil {
		return nil, pkgerrors.NewValidationError("payload cannot be nil")
	}
	if payload.Kind() != kind {
		return nil, pkgerrors.NewValidationError("payload kind does not match node kind")
	}

	now := time.Now()
	node := &Node{
		id:        valueobjects.NewNodeID(),
		kind:      kind,
		position:  position,
		payload:   payload,
		status:    StatusReady,
		createdAt: now,
		updatedAt: now,
		events:    []events.DomainEvent{},
	}

	node.addEvent(events.NewNodeCreated(node.id, string(kind), position, now))

	return node, nil
}

// ReconstructNode recreates a node from snapshot data with preserved timestamps
func ReconstructNode(
	id valueobjects.NodeID,
	kind NodeKind,
	position valueobjects.Position,
	payload Payload,
	status NodeStatus,
	createdAt, updatedAt time.Time,
) (*Node, error) {
	if !kind.Valid() {
		return nil, pkgerrors.NewValidationError("unknown node kind: " + string(kind))
	}
	if payload == nil || payload.Kind() != kind {
		return nil, pkgerrors.NewValidationError("payload kind does not match node kind")
	}

	return &Node{
		id:        id,
		kind:      kind,
		position:  position,
		payload:   payload,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
		events:    []events.DomainEvent{},
	}, nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Kind returns the node's kind tag
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Position returns the node's canvas-space position
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// Payload returns the kind-specific content
func (n *Node) Payload() Payload {
	return n.payload
}

// Status returns the node's enrichment status
func (n *Node) Status() NodeStatus {
	return n.status
}

// CreatedAt returns when the node was created
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// UpdatedAt returns when the node was last updated
func (n *Node) UpdatedAt() time.Time {
	return n.updatedAt
}

// MoveTo moves the node to a new canvas position
func (n *Node) MoveTo(position valueobjects.Position) {
	if position.Equals(n.position) {
		return
	}

	oldPosition := n.position
	n.position = position
	n.updatedAt = time.Now()

	n.addEvent(events.NewNodeMoved(n.id, oldPosition, position, n.updatedAt))
}

// UpdatePayload replaces the node's payload. The new payload must be of the
// same kind; the enrichment status is set alongside it.
func (n *Node) UpdatePayload(payload Payload, status NodeStatus) error {
	if payload == nil || payload.Kind() != n.kind {
		return pkgerrors.NewValidationError("payload kind does not match node kind")
	}

	n.payload = payload
	n.status = status
	n.updatedAt = time.Now()

	n.addEvent(events.NewNodeUpdated(n.id, string(status), n.updatedAt))

	return nil
}

// MarkLoading flags the node as awaiting asynchronous enrichment
func (n *Node) MarkLoading() {
	n.status = StatusLoading
	n.updatedAt = time.Now()
}

// Resize sets the box size for kinds that carry one (text, group). Other
// kinds have fixed rendered sizes and ignore the call.
func (n *Node) Resize(size valueobjects.Size) error {
	switch p := n.payload.(type) {
	case *TextPayload:
		p.Box = size
	case *GroupPayload:
		p.Box = size
	case *ChatPayload:
		p.PanelHeight = size.Height
	default:
		return pkgerrors.NewValidationError("node kind is not resizable: " + string(n.kind))
	}

	n.updatedAt = time.Now()
	n.addEvent(events.NewNodeUpdated(n.id, string(n.status), n.updatedAt))

	return nil
}

// Bounds returns the node's bounding box in canvas space, using the payload's
// box when the kind is resizable and the kind default otherwise.
func (n *Node) Bounds() valueobjects.Rect {
	if sized, ok := n.payload.(Sized); ok && !sized.Size().IsZero() {
		return valueobjects.NewRect(n.position, sized.Size())
	}
	if size, ok := defaultKindSizes[n.kind]; ok {
		return valueobjects.NewRect(n.position, size)
	}
	return valueobjects.NewRect(n.position, valueobjects.NewSize(240, 140))
}

// ContextText renders the node's content as a chat-context text block
func (n *Node) ContextText(lookup NodeLookup) string {
	return n.payload.ContextText(lookup)
}

// GetUncommittedEvents returns all uncommitted domain events
func (n *Node) GetUncommittedEvents() []events.DomainEvent {
	return n.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (n *Node) MarkEventsAsCommitted() {
	n.events = []events.DomainEvent{}
}

// addEvent adds a domain event to the uncommitted list
func (n *Node) addEvent(event events.DomainEvent) {
	n.events = append(n.events, event)
}
