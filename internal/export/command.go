package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/voicedeck/voicedeck/internal/deck"
	"github.com/voicedeck/voicedeck/internal/images"
	"github.com/voicedeck/voicedeck/pkg/executor"
)

// commandRenderer rasterizes slides through an external renderer binary:
// the slide is written to a scratch directory as JSON (with its resolved
// image alongside) and the command is invoked as
//
//	<command> <slide.json> <out.png>
//
// The scratch directory is the off-screen resource; Close removes it.
type commandRenderer struct {
	command string
	exec    executor.Executor
	workDir string
	seq     int
}

// NewCommandRenderer opens a renderer session backed by the configured
// external command.
func NewCommandRenderer(command string, exec executor.Executor) (Renderer, error) {
	if command == "" {
		return nil, fmt.Errorf("no renderer command configured")
	}

	workDir, err := os.MkdirTemp("", "voicedeck-render-*")
	if err != nil {
		return nil, fmt.Errorf("create render workdir: %w", err)
	}

	return &commandRenderer{command: command, exec: exec, workDir: workDir}, nil
}

type slideDocument struct {
	Title        string   `json:"title"`
	Content      []string `json:"content"`
	SpeakerNotes string   `json:"speakerNotes"`
	ImagePath    string   `json:"imagePath,omitempty"`
}

func (r *commandRenderer) Render(ctx context.Context, slide deck.Slide, img *images.UploadedImage) ([]byte, error) {
	r.seq++

	doc := slideDocument{
		Title:        slide.Title,
		Content:      slide.Content,
		SpeakerNotes: slide.SpeakerNotes,
	}

	if img != nil {
		imgPath := filepath.Join(r.workDir, "image-"+strconv.Itoa(r.seq)+extensionFor(img.MIMEType))
		if err := os.WriteFile(imgPath, img.Data, 0644); err != nil {
			return nil, fmt.Errorf("write slide image: %w", err)
		}
		doc.ImagePath = imgPath
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal slide: %w", err)
	}

	slidePath := filepath.Join(r.workDir, "slide-"+strconv.Itoa(r.seq)+".json")
	if err := os.WriteFile(slidePath, data, 0644); err != nil {
		return nil, fmt.Errorf("write slide document: %w", err)
	}

	outPath := filepath.Join(r.workDir, "raster-"+strconv.Itoa(r.seq)+".png")
	if _, err := r.exec.Execute(ctx, r.command, slidePath, outPath); err != nil {
		return nil, fmt.Errorf("render command: %w", err)
	}

	raster, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read raster: %w", err)
	}

	return raster, nil
}

func (r *commandRenderer) Close() error {
	return os.RemoveAll(r.workDir)
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// commandAssembler builds the paged document through an external
// command invoked as
//
//	<command> <width> <height> <out.pdf> <page1.png> [page2.png ...]
type commandAssembler struct {
	command string
	exec    executor.Executor
}

// NewCommandAssembler wraps the configured external assembler command.
func NewCommandAssembler(command string, exec executor.Executor) Assembler {
	return &commandAssembler{command: command, exec: exec}
}

func (a *commandAssembler) Assemble(ctx context.Context, pages [][]byte, width, height int) ([]byte, error) {
	if a.command == "" {
		return nil, fmt.Errorf("no assembler command configured")
	}

	workDir, err := os.MkdirTemp("", "voicedeck-assemble-*")
	if err != nil {
		return nil, fmt.Errorf("create assemble workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	outPath := filepath.Join(workDir, "out.pdf")
	args := []string{strconv.Itoa(width), strconv.Itoa(height), outPath}
	for i, page := range pages {
		pagePath := filepath.Join(workDir, "page-"+strconv.Itoa(i+1)+".png")
		if err := os.WriteFile(pagePath, page, 0644); err != nil {
			return nil, fmt.Errorf("write page %d: %w", i+1, err)
		}
		args = append(args, pagePath)
	}

	if _, err := a.exec.Execute(ctx, a.command, args...); err != nil {
		return nil, fmt.Errorf("assemble command: %w", err)
	}

	doc, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read assembled document: %w", err)
	}

	return doc, nil
}
