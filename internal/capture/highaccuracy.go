package capture

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/transcribe"
)

// TranscribingPlaceholder is shown as the transcript while the remote
// transcription call is outstanding.
const TranscribingPlaceholder = "Transcribing audio..."

type highAccuracyStrategy struct {
	src         AudioSource
	transcriber transcribe.Transcriber
	logger      logger.Logger
	onUpdate    func(string)

	mu         sync.Mutex
	state      State
	chunks     [][]byte
	transcript string
	done       chan struct{}
}

// NewHighAccuracy creates the record-then-transcribe strategy: buffer
// encoded audio while recording, then hand the whole blob to the remote
// transcription client on stop.
func NewHighAccuracy(src AudioSource, tr transcribe.Transcriber, log logger.Logger, onUpdate func(string)) Strategy {
	return &highAccuracyStrategy{
		src:         src,
		transcriber: tr,
		logger:      log,
		onUpdate:    onUpdate,
		done:        make(chan struct{}),
	}
}

func (h *highAccuracyStrategy) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateIdle {
		return fmt.Errorf("%w: recording already started", ErrCapture)
	}

	if err := h.src.Start(ctx); err != nil {
		h.logger.Error(ctx, "Audio stream acquisition failed: %v", err)
		return fmt.Errorf("%w: %v", ErrCapture, err)
	}

	h.state = StateRecording
	go h.pump()
	return nil
}

// pump buffers encoded chunks for the duration of one recording session.
// Zero-size chunks are dropped.
func (h *highAccuracyStrategy) pump() {
	defer close(h.done)

	for chunk := range h.src.Chunks() {
		if len(chunk) == 0 {
			continue
		}
		h.mu.Lock()
		h.chunks = append(h.chunks, chunk)
		h.mu.Unlock()
	}
}

// Stop releases the input stream, concatenates the buffered chunks, and
// transcribes the resulting blob. While the call is outstanding the
// visible transcript is a busy placeholder; on failure it becomes a
// formatted error message and the error is returned for the caller to
// surface. Idempotent after the first stop.
func (h *highAccuracyStrategy) Stop(ctx context.Context) error {
	h.mu.Lock()
	if h.state != StateRecording {
		h.mu.Unlock()
		return nil
	}
	h.state = StateStopped
	h.transcript = TranscribingPlaceholder
	h.mu.Unlock()

	h.notify(TranscribingPlaceholder)

	if err := h.src.Stop(); err != nil {
		h.logger.Warn(ctx, "Audio stream release failed: %v", err)
	}
	<-h.done

	h.mu.Lock()
	blob := bytes.Join(h.chunks, nil)
	h.mu.Unlock()

	text, err := h.transcriber.Transcribe(ctx, blob, h.src.MIMEType())
	if err != nil {
		msg := fmt.Sprintf("Transcription failed: %v", err)
		h.setTranscript(msg)
		return err
	}

	h.setTranscript(text)
	return nil
}

func (h *highAccuracyStrategy) setTranscript(text string) {
	h.mu.Lock()
	h.transcript = text
	h.mu.Unlock()
	h.notify(text)
}

func (h *highAccuracyStrategy) Transcript() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.transcript
}

func (h *highAccuracyStrategy) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *highAccuracyStrategy) notify(text string) {
	if h.onUpdate != nil {
		h.onUpdate(text)
	}
}
