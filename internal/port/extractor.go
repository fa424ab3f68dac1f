package port

import (
	"context"

	"contia/internal/domain"
)

// ExtractInput is one document's text handed to the extractor.
type ExtractInput struct {
	Kind     domain.DocumentKind
	Text     string
	Filename string
}

// DocumentExtractor turns invoice text into a normalized extraction result.
type DocumentExtractor interface {
	Analyze(ctx context.Context, input ExtractInput) (*domain.ExtractionResult, error)
}
