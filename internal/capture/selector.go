package capture

import (
	"fmt"
	"sync"
)

// Mode selects between the two transcription strategies.
type Mode string

const (
	ModeLive         Mode = "live"
	ModeHighAccuracy Mode = "high-accuracy"
)

// Selector holds the user-selectable transcription mode. Live support is
// probed once at initialization; without it the mode is forced to
// high-accuracy and cannot be changed. Callers must additionally keep
// the toggle disabled while busy or recording (precondition, enforced by
// the session).
type Selector struct {
	mu            sync.Mutex
	liveSupported bool
	mode          Mode
}

// NewSelector probes live-recognition support and picks the initial mode.
func NewSelector(liveSupported bool) *Selector {
	mode := ModeHighAccuracy
	if liveSupported {
		mode = ModeLive
	}
	return &Selector{liveSupported: liveSupported, mode: mode}
}

// Mode returns the currently selected mode.
func (s *Selector) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// LiveSupported reports whether the live strategy is available.
func (s *Selector) LiveSupported() bool {
	return s.liveSupported
}

// SetMode switches strategies. Selecting live without platform support
// is rejected.
func (s *Selector) SetMode(mode Mode) error {
	switch mode {
	case ModeLive, ModeHighAccuracy:
	default:
		return fmt.Errorf("unknown transcription mode %q", mode)
	}

	if mode == ModeLive && !s.liveSupported {
		return fmt.Errorf("live transcription is not supported on this platform")
	}

	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	return nil
}
