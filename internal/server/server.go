package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/voicedeck/voicedeck/internal/capture"
	"github.com/voicedeck/voicedeck/internal/export"
	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/session"
)

// Server exposes the session over HTTP and a live WebSocket. It is glue:
// all semantics live in the session and its collaborators.
type Server struct {
	session  *session.Session
	exporter *export.Exporter
	logger   logger.Logger
	upgrader websocket.Upgrader

	mu         sync.Mutex
	recognizer *wsRecognizer
	source     *wsAudioSource
	clients    map[*websocket.Conn]chan string
}

// New creates the API server around a session.
func New(sess *session.Session, exp *export.Exporter, log logger.Logger) *Server {
	return &Server{
		session:  sess,
		exporter: exp,
		logger:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: map[*websocket.Conn]chan string{},
	}
}

// NewRecognizer hands the session a fresh recognizer bridge for one
// recording session.
func (s *Server) NewRecognizer() capture.Recognizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recognizer = newWSRecognizer()
	return s.recognizer
}

// NewAudioSource hands the session a fresh audio bridge for one
// recording session.
func (s *Server) NewAudioSource() capture.AudioSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = newWSAudioSource("audio/webm")
	return s.source
}

// BroadcastTranscript pushes a transcript update to every live client.
func (s *Server) BroadcastTranscript(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.clients {
		select {
		case ch <- text:
		default:
		}
	}
}

// Routes builds the router.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/recording/start", s.handleRecordingStart).Methods("POST")
	api.HandleFunc("/recording/stop", s.handleRecordingStop).Methods("POST")
	api.HandleFunc("/mode", s.handleSetMode).Methods("PUT")
	api.HandleFunc("/transcript", s.handleGetTranscript).Methods("GET")
	api.HandleFunc("/transcript", s.handleSetTranscript).Methods("PUT")
	api.HandleFunc("/images", s.handleUploadImages).Methods("POST")
	api.HandleFunc("/images", s.handleListImages).Methods("GET")
	api.HandleFunc("/images/{index}", s.handleUpdateImage).Methods("PATCH")
	api.HandleFunc("/images/{index}", s.handleRemoveImage).Methods("DELETE")
	api.HandleFunc("/generate", s.handleGenerate).Methods("POST")
	api.HandleFunc("/presentation", s.handleGetPresentation).Methods("GET")
	api.HandleFunc("/navigate", s.handleNavigate).Methods("POST")
	api.HandleFunc("/export/pdf", s.handleExportPDF).Methods("POST")
	api.HandleFunc("/export/notes", s.handleExportNotes).Methods("POST")

	r.HandleFunc("/ws/live", s.handleLiveSocket)

	return r
}
