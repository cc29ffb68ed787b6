package transcribe

import (
	"github.com/voicedeck/voicedeck/internal/logger"
)

type implTranscriber struct {
	apiKeys    []string
	currentKey int
	logger     logger.Logger
	model      string
}

// New creates a Transcriber that rotates through the supplied Gemini API keys.
func New(apiKeys []string, model string, log logger.Logger) Transcriber {
	return &implTranscriber{
		apiKeys: apiKeys,
		logger:  log,
		model:   model,
	}
}
