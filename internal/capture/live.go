package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/voicedeck/voicedeck/internal/logger"
)

type liveStrategy struct {
	rec      Recognizer
	language string
	logger   logger.Logger
	onUpdate func(string)

	mu      sync.Mutex
	state   State
	final   string
	interim string
	done    chan struct{}
}

// NewLive creates the continuous-recognition strategy. onUpdate is
// invoked with the full displayed transcript after every recognition
// event; it may be nil.
func NewLive(rec Recognizer, language string, log logger.Logger, onUpdate func(string)) Strategy {
	return &liveStrategy{
		rec:      rec,
		language: language,
		logger:   log,
		onUpdate: onUpdate,
		done:     make(chan struct{}),
	}
}

func (l *liveStrategy) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateIdle {
		return fmt.Errorf("%w: recognition already started", ErrCapture)
	}

	if err := l.rec.Start(ctx, l.language); err != nil {
		l.logger.Error(ctx, "Recognition start failed: %v", err)
		return fmt.Errorf("%w: %v", ErrCapture, err)
	}

	l.state = StateRecording
	go l.pump(ctx)
	return nil
}

// pump partitions recognition results into final (accumulated) and
// interim (transient) text. The displayed transcript is recomputed as
// accumulated-final + current-interim on every event. Channel closure is
// the engine's end-of-session signal and acts as an implicit stop.
func (l *liveStrategy) pump(ctx context.Context) {
	defer close(l.done)

	for ev := range l.rec.Events() {
		l.mu.Lock()
		if l.state != StateRecording {
			l.mu.Unlock()
			continue
		}
		if ev.IsFinal {
			l.final += ev.Text
			l.interim = ""
		} else {
			l.interim = ev.Text
		}
		text := l.final + l.interim
		l.mu.Unlock()

		l.notify(text)
	}

	l.mu.Lock()
	implicit := l.state == StateRecording
	if implicit {
		l.state = StateStopped
	}
	l.mu.Unlock()

	if implicit {
		l.logger.Info(ctx, "Recognition session ended by engine, treating as stop")
	}
}

// Stop aborts the engine unconditionally and discards any pending
// interim result. A second stop after the session already stopped is a
// no-op.
func (l *liveStrategy) Stop(ctx context.Context) error {
	l.mu.Lock()
	if l.state != StateRecording {
		l.mu.Unlock()
		return nil
	}
	l.state = StateStopped
	l.interim = ""
	l.mu.Unlock()

	if err := l.rec.Abort(); err != nil {
		l.logger.Warn(ctx, "Recognition abort failed: %v", err)
	}
	<-l.done

	l.notify(l.Transcript())
	return nil
}

func (l *liveStrategy) Transcript() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.final + l.interim
}

func (l *liveStrategy) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *liveStrategy) notify(text string) {
	if l.onUpdate != nil {
		l.onUpdate(text)
	}
}
