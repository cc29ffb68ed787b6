package export

import (
	"context"
	"errors"

	"github.com/voicedeck/voicedeck/internal/deck"
	"github.com/voicedeck/voicedeck/internal/images"
)

// ErrExport is the error class for raster-capture and document-assembly
// failures. Off-screen rendering resources are released regardless.
var ErrExport = errors.New("export failed")

// PDFFilename is the fixed output filename for the paged document.
const PDFFilename = "presentation.pdf"

// NotesFilename is the fixed output filename for the notes handout.
const NotesFilename = "speaker-notes.docx"

// Renderer rasterizes one slide, with its resolved image if any, into an
// image suitable for embedding in a page. External collaborator; Close
// must release any off-screen resources and is safe to call after a
// failed render.
type Renderer interface {
	Render(ctx context.Context, slide deck.Slide, img *images.UploadedImage) ([]byte, error)
	Close() error
}

// Assembler builds a multi-page document from per-slide rasters at a
// fixed page size.
type Assembler interface {
	Assemble(ctx context.Context, pages [][]byte, width, height int) ([]byte, error)
}
