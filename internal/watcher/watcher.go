package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/voicedeck/voicedeck/internal/logger"
)

type implWatcher struct {
	inboxDir string
	handler  EventHandler
	logger   logger.Logger
	watcher  *fsnotify.Watcher
}

// Start monitors the inbox for new image files. Files are handled in
// event order, one at a time, so the committed image order matches the
// order in which files arrived.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Image inbox watcher started. Monitoring: %s", w.inboxDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Image inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !w.isImageFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-image file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New image detected: %s", event.Name)

			// Small delay to ensure file is fully written
			time.Sleep(200 * time.Millisecond)

			if err := w.handler(ctx, event.Name); err != nil {
				w.logger.Error(ctx, "Failed to ingest %s: %v", event.Name, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	supportedFormats := []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}

	return false
}

// MIMETypeFor maps a supported image extension to its MIME type.
func MIMETypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
