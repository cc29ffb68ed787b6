package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voicedeck/voicedeck/internal/deck"
	"github.com/voicedeck/voicedeck/internal/images"
	"github.com/voicedeck/voicedeck/internal/logger"
)

// Exporter drives the per-slide render-and-capture loop and writes the
// assembled documents under a fixed output directory.
type Exporter struct {
	newRenderer func() (Renderer, error)
	assembler   Assembler
	logger      logger.Logger
	outputDir   string
	pageWidth   int
	pageHeight  int
}

// NewExporter creates an Exporter. newRenderer opens a fresh off-screen
// rendering session per export.
func NewExporter(newRenderer func() (Renderer, error), asm Assembler, outputDir string, pageWidth, pageHeight int, log logger.Logger) *Exporter {
	return &Exporter{
		newRenderer: newRenderer,
		assembler:   asm,
		logger:      log,
		outputDir:   outputDir,
		pageWidth:   pageWidth,
		pageHeight:  pageHeight,
	}
}

// ExportPDF renders every slide to a raster, assembles the pages into a
// PDF, and writes it to the fixed filename. The renderer session is
// closed on success and on failure alike.
func (e *Exporter) ExportPDF(ctx context.Context, pres *deck.Presentation, imgs []images.UploadedImage) (string, error) {
	if pres == nil || pres.Len() == 0 {
		return "", fmt.Errorf("%w: nothing to export", ErrExport)
	}

	renderer, err := e.newRenderer()
	if err != nil {
		e.logger.Error(ctx, "Export renderer setup: %v", err)
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}
	defer func() {
		if cerr := renderer.Close(); cerr != nil {
			e.logger.Warn(ctx, "Renderer cleanup: %v", cerr)
		}
	}()

	pages := make([][]byte, 0, pres.Len())
	for i := 0; i < pres.Len(); i++ {
		slide := pres.Slide(i)
		img, _ := images.Resolve(slide.ImagePlaceholder, imgs)

		raster, err := renderer.Render(ctx, slide, img)
		if err != nil {
			e.logger.Error(ctx, "Render slide %d: %v", i+1, err)
			return "", fmt.Errorf("%w: render slide %d: %v", ErrExport, i+1, err)
		}
		pages = append(pages, raster)
	}

	doc, err := e.assembler.Assemble(ctx, pages, e.pageWidth, e.pageHeight)
	if err != nil {
		e.logger.Error(ctx, "Assemble document: %v", err)
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}

	outPath := filepath.Join(e.outputDir, PDFFilename)
	if err := os.WriteFile(outPath, doc, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}

	e.logger.Info(ctx, "Exported %d slides to %s", pres.Len(), outPath)
	return outPath, nil
}

// ExportNotes writes the speaker-notes handout next to the PDF.
func (e *Exporter) ExportNotes(ctx context.Context, pres *deck.Presentation) (string, error) {
	if pres == nil || pres.Len() == 0 {
		return "", fmt.Errorf("%w: nothing to export", ErrExport)
	}

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}

	outPath := filepath.Join(e.outputDir, NotesFilename)
	if err := writeNotesDocx(pres, outPath); err != nil {
		e.logger.Error(ctx, "Notes handout: %v", err)
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}

	e.logger.Info(ctx, "Exported notes handout to %s", outPath)
	return outPath, nil
}
