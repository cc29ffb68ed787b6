package slides

import (
	"context"

	"github.com/voicedeck/voicedeck/internal/deck"
	"github.com/voicedeck/voicedeck/internal/images"
)

// Generator turns a transcript plus the uploaded images into a validated
// presentation via schema-constrained generation.
type Generator interface {
	Generate(ctx context.Context, transcript string, imgs []images.UploadedImage) (*deck.Presentation, error)
}
