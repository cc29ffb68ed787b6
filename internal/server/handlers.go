package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/voicedeck/voicedeck/internal/capture"
	"github.com/voicedeck/voicedeck/internal/deck"
	"github.com/voicedeck/voicedeck/internal/images"
	"github.com/voicedeck/voicedeck/internal/session"
	"github.com/voicedeck/voicedeck/internal/slides"
	"github.com/voicedeck/voicedeck/internal/transcribe"
)

const maxUploadBytes = 64 << 20

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, session.ErrEmptyTranscript):
		status = http.StatusBadRequest
	case errors.Is(err, slides.ErrGeneration), errors.Is(err, transcribe.ErrTranscription):
		status = http.StatusBadGateway
	case errors.Is(err, capture.ErrCapture):
		status = http.StatusInternalServerError
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleRecordingStart(w http.ResponseWriter, r *http.Request) {
	if err := s.session.StartRecording(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"state": "recording",
		"mode":  string(s.session.Mode()),
	})
}

func (s *Server) handleRecordingStop(w http.ResponseWriter, r *http.Request) {
	// The strategy closes its own bridge: an explicit stop must abort the
	// recognizer itself so pending interim text is discarded, not raced
	// into the transcript by an early channel close.
	err := s.session.StopRecording(r.Context())
	if errors.Is(err, session.ErrBusy) {
		s.writeError(w, err)
		return
	}
	resp := map[string]string{
		"state":      "stopped",
		"transcript": s.session.Transcript(),
	}
	if err != nil {
		resp["error"] = err.Error()
		s.writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := s.session.SetMode(capture.Mode(req.Mode)); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"mode": string(s.session.Mode())})
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"transcript": s.session.Transcript()})
}

func (s *Server) handleSetTranscript(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.session.SetTranscript(req.Text)
	s.writeJSON(w, http.StatusOK, map[string]string{"transcript": req.Text})
}

// handleUploadImages accepts a multipart batch. Per-file descriptions
// arrive in same-order "descriptions" fields.
func (s *Server) handleUploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no files supplied"})
		return
	}

	files := make([]images.File, len(headers))
	for i, hdr := range headers {
		files[i] = images.File{
			Name:     hdr.Filename,
			MIMEType: hdr.Header.Get("Content-Type"),
			Open:     openHeader(hdr),
		}
	}

	batch, err := images.Ingest(r.Context(), files, 4)
	if err != nil {
		s.logger.Error(r.Context(), "Image ingest: %v", err)
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image upload failed"})
		return
	}

	descriptions := r.MultipartForm.Value["descriptions"]
	for i := range batch {
		if i < len(descriptions) {
			batch[i].Description = descriptions[i]
		}
	}

	s.session.AddImages(batch)
	s.writeJSON(w, http.StatusOK, map[string]int{"count": len(s.session.Images())})
}

func openHeader(hdr *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return hdr.Open()
	}
}

type imageInfo struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	MIMEType    string `json:"mimeType"`
	Description string `json:"description"`
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	imgs := s.session.Images()
	out := make([]imageInfo, len(imgs))
	for i, img := range imgs {
		out[i] = imageInfo{Index: i, Name: img.Name, MIMEType: img.MIMEType, Description: img.Description}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) imageIndex(r *http.Request) (int, error) {
	raw := mux.Vars(r)["index"]
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid image index %q", raw)
	}
	return idx, nil
}

func (s *Server) handleUpdateImage(w http.ResponseWriter, r *http.Request) {
	idx, err := s.imageIndex(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := s.session.UpdateImageDescription(idx, req.Description); err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleRemoveImage(w http.ResponseWriter, r *http.Request) {
	idx, err := s.imageIndex(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.session.RemoveImage(idx); err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	pres, err := s.session.Generate(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writePresentation(w, pres, 0)
}

func (s *Server) handleGetPresentation(w http.ResponseWriter, r *http.Request) {
	pres := s.session.Presentation()
	if pres == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "no presentation generated yet"})
		return
	}
	_, idx, _ := s.session.CurrentSlide()
	s.writePresentation(w, pres, idx)
}

func (s *Server) writePresentation(w http.ResponseWriter, pres *deck.Presentation, current int) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"slides":  pres.Slides(),
		"count":   pres.Len(),
		"current": current,
	})
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	switch req.Direction {
	case "next":
		s.session.Next()
	case "previous":
		s.session.Previous()
	default:
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "direction must be next or previous"})
		return
	}

	slide, idx, ok := s.session.CurrentSlide()
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "no presentation generated yet"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"current": idx, "slide": slide})
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	path, err := s.exporter.ExportPDF(r.Context(), s.session.Presentation(), s.session.Images())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *Server) handleExportNotes(w http.ResponseWriter, r *http.Request) {
	path, err := s.exporter.ExportNotes(r.Context(), s.session.Presentation())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"path": path})
}
