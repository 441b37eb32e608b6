package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Viewport constraints
	MinScale      float64
	MaxScale      float64
	WheelZoomRate float64 // scale factor applied per wheel-delta unit

	// Canvas constraints
	MaxNodesPerCanvas int
	MaxEdgesPerCanvas int
	DefaultCanvasName string

	// Connection rules
	AllowSelfConnections bool
	AllowDuplicateEdges  bool

	// Context estimation
	CharsPerToken          int
	ContextBlockSeparator  string
	ContextWrapperOverhead int // fixed instruction text wrapped around connected content
	ProviderTokenLimits    map[string]int
	DefaultProvider        string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MinScale:      0.1,
		MaxScale:      5.0,
		WheelZoomRate: 0.001,

		MaxNodesPerCanvas: 10000,
		MaxEdgesPerCanvas: 50000,
		DefaultCanvasName: "Untitled Canvas",

		AllowSelfConnections: false,
		AllowDuplicateEdges:  false,

		CharsPerToken:          4,
		ContextBlockSeparator:  "\n\n---\n\n",
		ContextWrapperOverhead: 120,
		ProviderTokenLimits: map[string]int{
			"gemini": 1048576,
			"groq":   131072,
		},
		DefaultProvider: "gemini",
	}
}

// TokenLimit returns the token ceiling for a provider, falling back to the
// default provider's ceiling when the name is unknown.
func (c *DomainConfig) TokenLimit(provider string) int {
	if limit, ok := c.ProviderTokenLimits[provider]; ok {
		return limit
	}
	return c.ProviderTokenLimits[c.DefaultProvider]
}
