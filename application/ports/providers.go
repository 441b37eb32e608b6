package ports

import (
	"context"

	"canvas-backend/domain/core/entities"
)

// ChatModel defines the interface to a conversational model provider
type ChatModel interface {
	// Generate produces the model's reply given the conversation so far and
	// the connected-source context. Context may be empty.
	Generate(ctx context.Context, history []entities.ChatMessage, contextText string) (string, error)

	// Provider returns the provider name ("gemini", "groq")
	Provider() string
}

// Transcriber converts recorded audio into text
type Transcriber interface {
	// Transcribe returns the transcript of an audio clip
	Transcribe(ctx context.Context, data []byte, mimeType string) (string, error)
}

// VisionAnalyzer describes image content as text
type VisionAnalyzer interface {
	// Analyze returns a textual description of the image
	Analyze(ctx context.Context, data []byte, mimeType string) (string, error)
}

// DocumentExtractor pulls text content out of uploaded files
type DocumentExtractor interface {
	// Extract returns the text content of a file
	Extract(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

// FetchedPage is the result of fetching one web page
type FetchedPage struct {
	URL     string
	Title   string
	Content string
}

// WebsiteFetcher retrieves and strips a web page for context use
type WebsiteFetcher interface {
	// Fetch downloads a page and returns its title and readable text
	Fetch(ctx context.Context, url string) (*FetchedPage, error)
}

// VideoMetadata is the looked-up metadata for a linked video
type VideoMetadata struct {
	Title      string
	Transcript string
}

// VideoMetadataProvider resolves a video URL to its metadata
type VideoMetadataProvider interface {
	// Lookup fetches title and, when available, transcript for a video URL
	Lookup(ctx context.Context, url string) (*VideoMetadata, error)
}
