package transcribe

import "context"

// Transcriber converts a captured audio blob into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}
