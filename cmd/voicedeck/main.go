package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voicedeck/voicedeck/internal/capture"
	"github.com/voicedeck/voicedeck/internal/config"
	"github.com/voicedeck/voicedeck/internal/export"
	"github.com/voicedeck/voicedeck/internal/images"
	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/server"
	"github.com/voicedeck/voicedeck/internal/session"
	"github.com/voicedeck/voicedeck/internal/slides"
	"github.com/voicedeck/voicedeck/internal/transcribe"
	"github.com/voicedeck/voicedeck/internal/watcher"
	"github.com/voicedeck/voicedeck/pkg/executor"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "VoiceDeck - narrated slide generator")
	log.Info(ctx, "========================================")

	// The Gemini credential is required; its absence is fatal.
	apiKeys, err := config.APIKeys()
	if err != nil {
		log.Error(ctx, "Startup failed: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Configuration loaded (%d API keys)", len(apiKeys))

	if err := os.MkdirAll(cfg.Paths.Output, 0755); err != nil {
		log.Error(ctx, "Failed to create output directory: %v", err)
		os.Exit(1)
	}

	// Initialize dependencies
	exec := executor.New()
	transcriber := transcribe.New(apiKeys, cfg.Gemini.TranscribeModel, log)
	generator := slides.New(apiKeys, cfg.Gemini.SlidesModel, cfg.Gemini.Temperature, log)
	selector := capture.NewSelector(cfg.Capture.LiveSupported)
	if !selector.LiveSupported() {
		log.Info(ctx, "Live recognition unsupported, forcing high-accuracy mode")
	}

	exporter := export.NewExporter(
		func() (export.Renderer, error) {
			return export.NewCommandRenderer(cfg.Export.RendererCommand, exec)
		},
		export.NewCommandAssembler(cfg.Export.AssemblerCommand, exec),
		cfg.Paths.Output,
		cfg.Export.PageWidth,
		cfg.Export.PageHeight,
		log,
	)

	var srv *server.Server
	sess := session.New(session.Deps{
		Logger:         log,
		Transcriber:    transcriber,
		Generator:      generator,
		Selector:       selector,
		NewRecognizer:  func() capture.Recognizer { return srv.NewRecognizer() },
		NewAudioSource: func() capture.AudioSource { return srv.NewAudioSource() },
		Language:       cfg.Capture.Language,
		OnTranscript:   func(text string) { srv.BroadcastTranscript(text) },
	})
	srv = server.New(sess, exporter, log)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Optional image inbox: files dropped here join the session's image
	// list in arrival order.
	if cfg.Paths.Inbox != "" {
		if err := os.MkdirAll(cfg.Paths.Inbox, 0755); err != nil {
			log.Error(ctx, "Failed to create inbox directory: %v", err)
			os.Exit(1)
		}

		w, err := watcher.New(cfg.Paths.Inbox, inboxHandler(sess, log), log)
		if err != nil {
			log.Error(ctx, "Failed to create inbox watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && err != context.Canceled {
				log.Error(ctx, "Inbox watcher error: %v", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: srv.Routes(),
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "VoiceDeck is ready!")
	log.Info(ctx, "Listening: %s", httpServer.Addr)
	log.Info(ctx, "Transcription mode: %s", selector.Mode())
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "Server shutdown: %v", err)
	}

	log.Info(ctx, "VoiceDeck stopped")
}

// inboxHandler ingests one dropped file into the session's image list.
func inboxHandler(sess *session.Session, log logger.Logger) watcher.EventHandler {
	return func(ctx context.Context, filePath string) error {
		batch, err := images.Ingest(ctx, []images.File{{
			Name:     filePath,
			MIMEType: watcher.MIMETypeFor(filePath),
			Open:     func() (io.ReadCloser, error) { return os.Open(filePath) },
		}}, 1)
		if err != nil {
			return err
		}

		sess.AddImages(batch)
		log.Info(ctx, "Ingested %s (%d images total)", filePath, len(sess.Images()))
		return nil
	}
}
