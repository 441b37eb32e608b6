package enrichment

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	pkgerrors "canvas-backend/pkg/errors"
)

// DocumentExtractor pulls text out of uploaded files. Plain-text formats are
// decoded directly; binary formats are rejected so the node degrades to its
// placeholder instead of feeding garbage into chat context.
type DocumentExtractor struct {
	logger *zap.Logger
}

var _ ports.DocumentExtractor = (*DocumentExtractor)(nil)

// NewDocumentExtractor creates a document extractor
func NewDocumentExtractor(logger *zap.Logger) *DocumentExtractor {
	return &DocumentExtractor{logger: logger}
}

// Extract returns the text content of a file
func (e *DocumentExtractor) Extract(_ context.Context, name, mimeType string, data []byte) (string, error) {
	if !isTextual(mimeType, name) {
		return "", pkgerrors.NewValidationError("unsupported document format: " + mimeType)
	}
	if !utf8.Valid(data) {
		return "", pkgerrors.NewValidationError("file is not valid UTF-8 text")
	}

	e.logger.Debug("document extracted",
		zap.String("file", name),
		zap.Int("bytes", len(data)),
	)
	return string(data), nil
}

func isTextual(mimeType, name string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/xml", "application/x-yaml", "application/javascript":
		return true
	}
	for _, ext := range []string{".txt", ".md", ".csv", ".json", ".xml", ".yaml", ".yml", ".log"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return true
		}
	}
	return false
}
