package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/voicedeck/voicedeck/internal/capture"
	"github.com/voicedeck/voicedeck/internal/deck"
	"github.com/voicedeck/voicedeck/internal/export"
	"github.com/voicedeck/voicedeck/internal/images"
	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/session"
	"github.com/voicedeck/voicedeck/internal/slides"
)

type stubGenerator struct {
	pres *deck.Presentation
	err  error
}

func (s *stubGenerator) Generate(ctx context.Context, transcript string, imgs []images.UploadedImage) (*deck.Presentation, error) {
	return s.pres, s.err
}

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(ctx context.Context, audio []byte, mime string) (string, error) {
	return "stub", nil
}

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, slide deck.Slide, img *images.UploadedImage) ([]byte, error) {
	return []byte("raster"), nil
}
func (stubRenderer) Close() error { return nil }

type stubAssembler struct{}

func (stubAssembler) Assemble(ctx context.Context, pages [][]byte, width, height int) ([]byte, error) {
	return []byte("pdf"), nil
}

func newTestServer(t *testing.T, gen *stubGenerator) (*Server, *session.Session) {
	t.Helper()
	log := logger.New("error")

	var srv *Server
	sess := session.New(session.Deps{
		Logger:         log,
		Transcriber:    stubTranscriber{},
		Generator:      gen,
		Selector:       capture.NewSelector(true),
		NewRecognizer:  func() capture.Recognizer { return srv.NewRecognizer() },
		NewAudioSource: func() capture.AudioSource { return srv.NewAudioSource() },
		Language:       "en-US",
	})

	exp := export.NewExporter(
		func() (export.Renderer, error) { return stubRenderer{}, nil },
		stubAssembler{},
		t.TempDir(),
		1280, 720,
		log,
	)
	srv = New(sess, exp, log)
	return srv, sess
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Buffer
	if body == "" {
		rdr = bytes.NewBuffer(nil)
	} else {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTranscriptRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	router := srv.Routes()

	rec := doJSON(t, router, "PUT", "/api/transcript", `{"text":"edited narration"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /api/transcript = %d", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/transcript", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/transcript = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "edited narration") {
		t.Errorf("transcript body = %s", rec.Body.String())
	}
}

func TestGenerateEndpoint(t *testing.T) {
	gen := &stubGenerator{pres: deck.NewPresentation([]deck.Slide{
		{Title: "Intro", Content: []string{}, SpeakerNotes: "hi"},
		{Title: "One", Content: []string{"a"}, SpeakerNotes: "x"},
	})}
	srv, sess := newTestServer(t, gen)
	router := srv.Routes()
	sess.SetTranscript("narration")

	rec := doJSON(t, router, "POST", "/api/generate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/generate = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Count   int `json:"count"`
		Current int `json:"current"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || resp.Current != 0 {
		t.Errorf("response = %+v", resp)
	}
}

func TestGenerateEmptyTranscriptEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})

	rec := doJSON(t, srv.Routes(), "POST", "/api/generate", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /api/generate with empty transcript = %d, want 400", rec.Code)
	}
}

func TestGenerateFailureEndpoint(t *testing.T) {
	srv, sess := newTestServer(t, &stubGenerator{err: slides.ErrGeneration})
	sess.SetTranscript("narration")

	rec := doJSON(t, srv.Routes(), "POST", "/api/generate", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("POST /api/generate on failure = %d, want 502", rec.Code)
	}
}

func TestNavigateEndpoint(t *testing.T) {
	gen := &stubGenerator{pres: deck.NewPresentation([]deck.Slide{
		{Title: "One", Content: []string{}},
		{Title: "Two", Content: []string{}},
	})}
	srv, sess := newTestServer(t, gen)
	router := srv.Routes()
	sess.SetTranscript("narration")

	if rec := doJSON(t, router, "POST", "/api/generate", ""); rec.Code != http.StatusOK {
		t.Fatalf("generate failed: %d", rec.Code)
	}

	rec := doJSON(t, router, "POST", "/api/navigate", `{"direction":"next"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("navigate = %d", rec.Code)
	}
	var resp struct {
		Current int `json:"current"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Current != 1 {
		t.Errorf("current = %d, want 1", resp.Current)
	}

	// Past the end: no-op.
	rec = doJSON(t, router, "POST", "/api/navigate", `{"direction":"next"}`)
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Current != 1 {
		t.Errorf("current after overrun = %d, want 1", resp.Current)
	}

	rec = doJSON(t, router, "POST", "/api/navigate", `{"direction":"sideways"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid direction = %d, want 400", rec.Code)
	}
}

func TestPresentationNotFound(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})

	rec := doJSON(t, srv.Routes(), "GET", "/api/presentation", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /api/presentation = %d, want 404", rec.Code)
	}
}

func waitForTranscript(t *testing.T, sess *session.Session, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sess.Transcript() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("transcript = %q, want %q", sess.Transcript(), want)
}

func TestStopHandlerDiscardsInterim(t *testing.T) {
	srv, sess := newTestServer(t, &stubGenerator{})
	router := srv.Routes()

	if rec := doJSON(t, router, "POST", "/api/recording/start", ""); rec.Code != http.StatusOK {
		t.Fatalf("POST /api/recording/start = %d: %s", rec.Code, rec.Body.String())
	}

	srv.mu.Lock()
	bridge := srv.recognizer
	srv.mu.Unlock()

	bridge.push(capture.RecognitionEvent{Text: "kept. ", IsFinal: true})
	bridge.push(capture.RecognitionEvent{Text: "pending interim", IsFinal: false})
	waitForTranscript(t, sess, "kept. pending interim")

	rec := doJSON(t, router, "POST", "/api/recording/stop", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/recording/stop = %d: %s", rec.Code, rec.Body.String())
	}
	if got := sess.Transcript(); got != "kept. " {
		t.Errorf("transcript after explicit stop = %q, want interim discarded", got)
	}
	if sess.Recording() {
		t.Error("session must be idle after stop")
	}
}

func TestModeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	router := srv.Routes()

	rec := doJSON(t, router, "PUT", "/api/mode", `{"mode":"high-accuracy"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /api/mode = %d", rec.Code)
	}

	rec = doJSON(t, router, "PUT", "/api/mode", `{"mode":"warp"}`)
	if rec.Code == http.StatusOK {
		t.Error("unknown mode should be rejected")
	}
}

func TestExportWithoutPresentation(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})

	rec := doJSON(t, srv.Routes(), "POST", "/api/export/pdf", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("POST /api/export/pdf without deck = %d, want 500", rec.Code)
	}
}
