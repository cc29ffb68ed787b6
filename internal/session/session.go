package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/voicedeck/voicedeck/internal/capture"
	"github.com/voicedeck/voicedeck/internal/deck"
	"github.com/voicedeck/voicedeck/internal/images"
	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/slides"
	"github.com/voicedeck/voicedeck/internal/transcribe"
)

// ErrBusy guards the single-flight invariant: only one recording session
// and one generation request may be active at a time. The busy flag is
// the sole mutual-exclusion mechanism; there is no queue.
var ErrBusy = errors.New("another operation is in progress")

// ErrEmptyTranscript rejects generation without any narration.
var ErrEmptyTranscript = errors.New("transcript is empty")

// Deps wires the session's collaborators.
type Deps struct {
	Logger         logger.Logger
	Transcriber    transcribe.Transcriber
	Generator      slides.Generator
	Selector       *capture.Selector
	NewRecognizer  func() capture.Recognizer
	NewAudioSource func() capture.AudioSource
	Language       string
	OnTranscript   func(string)
}

// Session owns all per-session state: the editable transcript, the
// ordered image list, the recording strategy, and the current
// presentation with its navigator. No state survives the process.
type Session struct {
	deps Deps

	mu         sync.Mutex
	strategy   capture.Strategy
	recording  bool
	busy       bool
	transcript string
	imgs       []images.UploadedImage
	pres       *deck.Presentation
	nav        *deck.Navigator
}

// New creates an idle session.
func New(deps Deps) *Session {
	return &Session{
		deps: deps,
		nav:  deck.NewNavigator(nil),
	}
}

// StartRecording begins a capture session with the currently selected
// strategy. Each session starts with fresh buffers; the previous
// strategy instance is discarded.
func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	if s.busy || s.recording {
		s.mu.Unlock()
		return ErrBusy
	}

	var strat capture.Strategy
	switch s.deps.Selector.Mode() {
	case capture.ModeLive:
		strat = capture.NewLive(s.deps.NewRecognizer(), s.deps.Language, s.deps.Logger, s.handleTranscript)
	default:
		strat = capture.NewHighAccuracy(s.deps.NewAudioSource(), s.deps.Transcriber, s.deps.Logger, s.handleTranscript)
	}
	s.strategy = strat
	s.recording = true
	s.mu.Unlock()

	if err := strat.Start(ctx); err != nil {
		s.mu.Lock()
		s.strategy = nil
		s.recording = false
		s.mu.Unlock()
		return err
	}

	s.deps.Logger.Info(ctx, "Recording started (%s mode)", s.deps.Selector.Mode())
	return nil
}

// StopRecording ends the capture session and commits the final
// transcript. In high-accuracy mode this includes the remote
// transcription call, so the session is busy for its duration; a second
// stop arriving during that window gets ErrBusy. Stopping when not
// recording is a no-op.
func (s *Session) StopRecording(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if !s.recording {
		s.mu.Unlock()
		return nil
	}
	strat := s.strategy
	s.busy = true
	s.mu.Unlock()

	err := strat.Stop(ctx)

	s.mu.Lock()
	s.recording = false
	s.busy = false
	s.strategy = nil
	s.transcript = strat.Transcript()
	s.mu.Unlock()

	if err != nil {
		s.deps.Logger.Error(ctx, "Recording stop: %v", err)
		return err
	}

	s.deps.Logger.Info(ctx, "Recording stopped, transcript length %d", len(strat.Transcript()))
	return nil
}

func (s *Session) handleTranscript(text string) {
	s.mu.Lock()
	s.transcript = text
	s.mu.Unlock()

	if s.deps.OnTranscript != nil {
		s.deps.OnTranscript(text)
	}
}

// SetMode switches transcription strategy. Only allowed while idle.
func (s *Session) SetMode(mode capture.Mode) error {
	s.mu.Lock()
	locked := s.busy || s.recording
	s.mu.Unlock()

	if locked {
		return ErrBusy
	}
	return s.deps.Selector.SetMode(mode)
}

// Mode returns the selected transcription mode.
func (s *Session) Mode() capture.Mode {
	return s.deps.Selector.Mode()
}

// Transcript returns the current editable transcript.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// SetTranscript replaces the transcript with user edits.
func (s *Session) SetTranscript(text string) {
	s.mu.Lock()
	s.transcript = text
	s.mu.Unlock()
}

// AddImages appends a committed ingestion batch, preserving its order.
func (s *Session) AddImages(batch []images.UploadedImage) {
	s.mu.Lock()
	s.imgs = append(s.imgs, batch...)
	s.mu.Unlock()
}

// Images returns a copy of the ordered image list.
func (s *Session) Images() []images.UploadedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]images.UploadedImage(nil), s.imgs...)
}

// UpdateImageDescription edits the free-text description of one image.
func (s *Session) UpdateImageDescription(index int, desc string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.imgs) {
		return fmt.Errorf("image index %d out of range", index)
	}
	s.imgs[index].Description = desc
	return nil
}

// RemoveImage deletes one image. Later images shift down, so slide
// placeholders generated earlier may dangle; resolution tolerates that.
func (s *Session) RemoveImage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.imgs) {
		return fmt.Errorf("image index %d out of range", index)
	}
	s.imgs = append(s.imgs[:index], s.imgs[index+1:]...)
	return nil
}

// Generate runs the structuring call and atomically replaces the
// presentation, resetting the view to slide 0. The previous presentation
// is kept untouched if generation fails.
func (s *Session) Generate(ctx context.Context) (*deck.Presentation, error) {
	s.mu.Lock()
	if s.busy || s.recording {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if strings.TrimSpace(s.transcript) == "" {
		s.mu.Unlock()
		return nil, ErrEmptyTranscript
	}
	s.busy = true
	transcript := s.transcript
	imgs := append([]images.UploadedImage(nil), s.imgs...)
	s.mu.Unlock()

	pres, err := s.deps.Generator.Generate(ctx, transcript, imgs)

	s.mu.Lock()
	s.busy = false
	if err == nil {
		s.pres = pres
		s.nav.Replace(pres)
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return pres, nil
}

// Presentation returns the current presentation, or nil before the first
// successful generation.
func (s *Session) Presentation() *deck.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pres
}

// CurrentSlide returns the slide under the navigation index.
func (s *Session) CurrentSlide() (deck.Slide, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pres == nil {
		return deck.Slide{}, 0, false
	}
	return s.pres.Slide(s.nav.Current()), s.nav.Current(), true
}

// Next advances the slide view; no-op at the last slide.
func (s *Session) Next() {
	s.mu.Lock()
	s.nav.Next()
	s.mu.Unlock()
}

// Previous steps the slide view back; no-op at slide 0.
func (s *Session) Previous() {
	s.mu.Lock()
	s.nav.Previous()
	s.mu.Unlock()
}

// Recording reports whether a capture session is active.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Busy reports whether a remote call is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
