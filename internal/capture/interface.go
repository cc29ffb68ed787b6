package capture

import (
	"context"
	"errors"
)

// ErrCapture is the error class for microphone/permission denial and
// recognition-start failures. Callers recover by resetting to idle and
// alerting the user.
var ErrCapture = errors.New("capture failed")

// RecognitionEvent is one incremental result from the platform speech
// engine. Interim results are transient; final results are accumulated.
type RecognitionEvent struct {
	Text    string
	IsFinal bool
}

// Recognizer is the platform's continuous speech engine (live mode).
// Events is closed when the engine ends the session on its own, e.g.
// after a silence timeout. Abort tears the session down unconditionally.
type Recognizer interface {
	Start(ctx context.Context, language string) error
	Events() <-chan RecognitionEvent
	Abort() error
}

// AudioSource is the platform's media-capture stream (high-accuracy
// mode). Chunks is closed once the stream is released via Stop.
type AudioSource interface {
	Start(ctx context.Context) error
	Chunks() <-chan []byte
	MIMEType() string
	Stop() error
}

// Strategy is the uniform start/stop/result surface over the two
// transcription strategies. Mode branching happens once, at selection;
// everything downstream dispatches through this interface.
type Strategy interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Transcript() string
	State() State
}
