package queries

import (
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/pkg/utils"
)

// GetCanvasQuery represents a query for the full canvas snapshot
type GetCanvasQuery struct{}

// Validate validates the GetCanvasQuery
func (q GetCanvasQuery) Validate() error {
	return nil
}

// CanvasSnapshot is the wire representation of the whole canvas
type CanvasSnapshot struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Nodes []NodeModel `json:"nodes"`
	Edges []EdgeModel `json:"edges"`
}

// NodeModel is the wire representation of a node
type NodeModel struct {
	ID        string      `json:"id"`
	Kind      string      `json:"kind"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Status    string      `json:"status"`
	Payload   interface{} `json:"payload"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

// EdgeModel is the wire representation of a connection
type EdgeModel struct {
	ID        string `json:"id"`
	SourceID  string `json:"source_id"`
	TargetID  string `json:"target_id"`
	CreatedAt string `json:"created_at"`
}

// NewNodeModel maps a node entity to its wire representation
func NewNodeModel(node *entities.Node) NodeModel {
	return NodeModel{
		ID:        node.ID().String(),
		Kind:      string(node.Kind()),
		X:         node.Position().X,
		Y:         node.Position().Y,
		Status:    string(node.Status()),
		Payload:   node.Payload(),
		CreatedAt: utils.FormatRFC3339(node.CreatedAt()),
		UpdatedAt: utils.FormatRFC3339(node.UpdatedAt()),
	}
}

// NewEdgeModel maps an edge to its wire representation
func NewEdgeModel(edge *aggregates.Edge) EdgeModel {
	return EdgeModel{
		ID:        edge.ID,
		SourceID:  edge.SourceID.String(),
		TargetID:  edge.TargetID.String(),
		CreatedAt: utils.FormatRFC3339(edge.CreatedAt),
	}
}

// NewCanvasSnapshot maps a canvas aggregate to its wire representation
func NewCanvasSnapshot(canvas *aggregates.Canvas) CanvasSnapshot {
	snapshot := CanvasSnapshot{
		ID:    canvas.ID().String(),
		Name:  canvas.Name(),
		Nodes: []NodeModel{},
		Edges: []EdgeModel{},
	}
	for _, node := range canvas.Nodes() {
		snapshot.Nodes = append(snapshot.Nodes, NewNodeModel(node))
	}
	for _, edge := range canvas.Edges() {
		snapshot.Edges = append(snapshot.Edges, NewEdgeModel(edge))
	}
	return snapshot
}
