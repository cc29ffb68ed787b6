package watcher

import "context"

// Watcher monitors the image inbox directory.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler receives the path of a newly dropped image file.
type EventHandler func(ctx context.Context, filePath string) error
