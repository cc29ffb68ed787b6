package server

import (
	"context"
	"sync"

	"github.com/voicedeck/voicedeck/internal/capture"
)

// The platform speech engine and media capture live at the client edge;
// their events and audio chunks arrive over the live WebSocket. These
// bridges adapt that stream onto the capture collaborator interfaces.

type wsRecognizer struct {
	mu     sync.Mutex
	events chan capture.RecognitionEvent
	closed bool
}

func newWSRecognizer() *wsRecognizer {
	return &wsRecognizer{events: make(chan capture.RecognitionEvent, 32)}
}

func (r *wsRecognizer) Start(ctx context.Context, language string) error {
	// Recognition runs on the client; nothing to start here.
	return nil
}

func (r *wsRecognizer) Events() <-chan capture.RecognitionEvent {
	return r.events
}

// Abort ends the session: used both for explicit stops and when the
// client reports the engine ended on its own.
func (r *wsRecognizer) Abort() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	return nil
}

// push delivers one event; it blocks when the pump falls behind rather
// than dropping data, so the socket read loop applies backpressure to
// the client. The pump drains until Abort closes the channel, which
// bounds the wait; holding the lock keeps the send ordered against an
// Abort racing in from another goroutine.
func (r *wsRecognizer) push(ev capture.RecognitionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.events <- ev
}

type wsAudioSource struct {
	mu     sync.Mutex
	chunks chan []byte
	mime   string
	closed bool
}

func newWSAudioSource(mime string) *wsAudioSource {
	if mime == "" {
		mime = "audio/webm"
	}
	return &wsAudioSource{chunks: make(chan []byte, 64), mime: mime}
}

func (s *wsAudioSource) Start(ctx context.Context) error { return nil }

func (s *wsAudioSource) Chunks() <-chan []byte { return s.chunks }

func (s *wsAudioSource) MIMEType() string { return s.mime }

func (s *wsAudioSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.chunks)
	}
	return nil
}

// push blocks when the buffer fills, same as the recognizer bridge: a
// dropped chunk would silently corrupt the blob sent to transcription.
func (s *wsAudioSource) push(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.chunks <- chunk
}
