package queries

// GetContextUsageQuery represents a query for the canvas's estimated context
// window consumption
type GetContextUsageQuery struct{}

// Validate validates the GetContextUsageQuery
func (q GetContextUsageQuery) Validate() error {
	return nil
}
