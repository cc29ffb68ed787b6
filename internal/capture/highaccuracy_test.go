package capture

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/transcribe"
)

type fakeSource struct {
	chunks   chan []byte
	startErr error
	stopped  bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{chunks: make(chan []byte, 16)}
}

func (f *fakeSource) Start(ctx context.Context) error { return f.startErr }
func (f *fakeSource) Chunks() <-chan []byte           { return f.chunks }
func (f *fakeSource) MIMEType() string                { return "audio/webm" }

func (f *fakeSource) Stop() error {
	f.stopped = true
	close(f.chunks)
	return nil
}

type fakeTranscriber struct {
	gotAudio []byte
	gotMIME  string
	text     string
	err      error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	f.gotAudio = audio
	f.gotMIME = mimeType
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestHighAccuracyBuffersAndTranscribes(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	tr := &fakeTranscriber{text: "the full transcript"}
	recorder := &transcriptRecorder{}
	strat := NewHighAccuracy(src, tr, logger.New("error"), recorder.record)

	if err := strat.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	src.chunks <- []byte("aaa")
	src.chunks <- nil // zero-size chunks are dropped
	src.chunks <- []byte("bbb")

	if err := strat.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if !src.stopped {
		t.Error("Stop() must release the audio stream")
	}
	if string(tr.gotAudio) != "aaabbb" {
		t.Errorf("transcriber received %q, want concatenated chunks", tr.gotAudio)
	}
	if tr.gotMIME != "audio/webm" {
		t.Errorf("transcriber received mime %q", tr.gotMIME)
	}
	if strat.Transcript() != "the full transcript" {
		t.Errorf("Transcript() = %q", strat.Transcript())
	}

	// The busy placeholder was visible while the call was outstanding.
	seen := recorder.all()
	if len(seen) < 2 || seen[0] != TranscribingPlaceholder {
		t.Errorf("updates = %v, want placeholder first", seen)
	}
}

func TestHighAccuracyTranscriptionFailure(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	tr := &fakeTranscriber{err: transcribe.ErrTranscription}
	strat := NewHighAccuracy(src, tr, logger.New("error"), nil)

	if err := strat.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	src.chunks <- []byte("audio")

	err := strat.Stop(ctx)
	if !errors.Is(err, transcribe.ErrTranscription) {
		t.Fatalf("Stop() error = %v, want ErrTranscription", err)
	}

	// Session still terminated cleanly and the error is visible.
	if strat.State() != StateStopped {
		t.Errorf("State() = %v, want stopped", strat.State())
	}
	if !strings.HasPrefix(strat.Transcript(), "Transcription failed:") {
		t.Errorf("Transcript() = %q, want formatted error", strat.Transcript())
	}
}

func TestHighAccuracyStopIdempotent(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	tr := &fakeTranscriber{text: "once"}
	strat := NewHighAccuracy(src, tr, logger.New("error"), nil)

	if err := strat.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	src.chunks <- []byte("x")

	if err := strat.Stop(ctx); err != nil {
		t.Fatalf("first Stop() error = %v", err)
	}

	tr.gotAudio = nil
	if err := strat.Stop(ctx); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
	if tr.gotAudio != nil {
		t.Error("second Stop() must not transcribe again")
	}
}

func TestHighAccuracyStartFailure(t *testing.T) {
	src := newFakeSource()
	src.startErr = errors.New("device busy")
	strat := NewHighAccuracy(src, &fakeTranscriber{}, logger.New("error"), nil)

	err := strat.Start(context.Background())
	if !errors.Is(err, ErrCapture) {
		t.Fatalf("Start() error = %v, want ErrCapture", err)
	}
	if strat.State() != StateIdle {
		t.Errorf("State() = %v, want idle", strat.State())
	}
}

func TestHighAccuracyDoubleStart(t *testing.T) {
	src := newFakeSource()
	strat := NewHighAccuracy(src, &fakeTranscriber{}, logger.New("error"), nil)

	if err := strat.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := strat.Start(context.Background()); !errors.Is(err, ErrCapture) {
		t.Errorf("second Start() error = %v, want ErrCapture", err)
	}
}
