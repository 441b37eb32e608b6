package queries

import "errors"

// GetNodeQuery represents a query to get a single node
type GetNodeQuery struct {
	NodeID string
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	if q.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}
