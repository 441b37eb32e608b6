package events

import (
	"time"

	"canvas-backend/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// Node events

// NodeCreated is raised when a new node is placed on the canvas
type NodeCreated struct {
	BaseEvent
	NodeID   valueobjects.NodeID   `json:"node_id"`
	Kind     string                `json:"kind"`
	Position valueobjects.Position `json:"position"`
}

// NewNodeCreated creates a NodeCreated event
func NewNodeCreated(nodeID valueobjects.NodeID, kind string, position valueobjects.Position, timestamp time.Time) NodeCreated {
	return NodeCreated{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.created",
			Timestamp:   timestamp,
		},
		NodeID:   nodeID,
		Kind:     kind,
		Position: position,
	}
}

// NodeMoved is raised when a node is moved to a new position
type NodeMoved struct {
	BaseEvent
	NodeID      valueobjects.NodeID   `json:"node_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNodeMoved creates a NodeMoved event
func NewNodeMoved(nodeID valueobjects.NodeID, oldPos, newPos valueobjects.Position, timestamp time.Time) NodeMoved {
	return NodeMoved{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.moved",
			Timestamp:   timestamp,
		},
		NodeID:      nodeID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// NodeUpdated is raised when a node's payload changes (content edit or
// asynchronous enrichment completing)
type NodeUpdated struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
	Status string              `json:"status"`
}

// NewNodeUpdated creates a NodeUpdated event
func NewNodeUpdated(nodeID valueobjects.NodeID, status string, timestamp time.Time) NodeUpdated {
	return NodeUpdated{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.updated",
			Timestamp:   timestamp,
		},
		NodeID: nodeID,
		Status: status,
	}
}

// NodeRemoved is raised when a node is deleted from the canvas
type NodeRemoved struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
}

// NewNodeRemoved creates a NodeRemoved event
func NewNodeRemoved(nodeID valueobjects.NodeID, timestamp time.Time) NodeRemoved {
	return NodeRemoved{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.removed",
			Timestamp:   timestamp,
		},
		NodeID: nodeID,
	}
}

// Connection events

// NodesConnected is raised when an edge is committed between two nodes
type NodesConnected struct {
	BaseEvent
	EdgeID   string              `json:"edge_id"`
	SourceID valueobjects.NodeID `json:"source_id"`
	TargetID valueobjects.NodeID `json:"target_id"`
}

// NewNodesConnected creates a NodesConnected event
func NewNodesConnected(edgeID string, sourceID, targetID valueobjects.NodeID, timestamp time.Time) NodesConnected {
	return NodesConnected{
		BaseEvent: BaseEvent{
			AggregateID: edgeID,
			EventType:   "nodes.connected",
			Timestamp:   timestamp,
		},
		EdgeID:   edgeID,
		SourceID: sourceID,
		TargetID: targetID,
	}
}

// NodesDisconnected is raised when an edge is removed
type NodesDisconnected struct {
	BaseEvent
	EdgeID   string              `json:"edge_id"`
	SourceID valueobjects.NodeID `json:"source_id"`
	TargetID valueobjects.NodeID `json:"target_id"`
}

// NewNodesDisconnected creates a NodesDisconnected event
func NewNodesDisconnected(edgeID string, sourceID, targetID valueobjects.NodeID, timestamp time.Time) NodesDisconnected {
	return NodesDisconnected{
		BaseEvent: BaseEvent{
			AggregateID: edgeID,
			EventType:   "nodes.disconnected",
			Timestamp:   timestamp,
		},
		EdgeID:   edgeID,
		SourceID: sourceID,
		TargetID: targetID,
	}
}
