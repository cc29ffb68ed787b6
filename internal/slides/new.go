package slides

import (
	"github.com/voicedeck/voicedeck/internal/logger"
)

type implGenerator struct {
	apiKeys     []string
	currentKey  int
	logger      logger.Logger
	model       string
	temperature float32
}

// New creates a Generator that rotates through the supplied Gemini API keys.
func New(apiKeys []string, model string, temperature float64, log logger.Logger) Generator {
	return &implGenerator{
		apiKeys:     apiKeys,
		logger:      log,
		model:       model,
		temperature: float32(temperature),
	}
}
