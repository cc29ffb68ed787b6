package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/voicedeck/voicedeck/internal/capture"
)

// liveMessage is a JSON text frame on the live socket. The client relays
// its platform speech engine through these; binary frames carry encoded
// audio chunks for high-accuracy mode.
type liveMessage struct {
	Type    string `json:"type"`              // recognition | end
	Text    string `json:"text,omitempty"`
	IsFinal bool   `json:"isFinal,omitempty"`
}

type transcriptUpdate struct {
	Type       string `json:"type"`
	Transcript string `json:"transcript"`
}

func (s *Server) handleLiveSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(r.Context(), "WebSocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	updates := make(chan string, 16)
	s.mu.Lock()
	s.clients[conn] = updates
	s.mu.Unlock()
	// Deregister under the same lock broadcasts take, so nothing can
	// send on the channel once it is closed.
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		close(updates)
	}()

	go func() {
		for text := range updates {
			msg := transcriptUpdate{Type: "transcript", Transcript: text}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			s.mu.Lock()
			src := s.source
			s.mu.Unlock()
			if src != nil {
				src.push(data)
			}

		case websocket.TextMessage:
			var msg liveMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				s.logger.Warn(r.Context(), "Malformed live message: %v", err)
				continue
			}

			s.mu.Lock()
			rec := s.recognizer
			s.mu.Unlock()
			if rec == nil {
				continue
			}

			switch msg.Type {
			case "recognition":
				rec.push(capture.RecognitionEvent{Text: msg.Text, IsFinal: msg.IsFinal})
			case "end":
				// The client's engine ended the session on its own.
				_ = rec.Abort()
			}
		}
	}
}
