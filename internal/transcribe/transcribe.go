package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrTranscription is the single error class surfaced to callers. Any
// transport, auth, or malformed-response failure maps onto it; there is
// no retry and no partial result.
var ErrTranscription = errors.New("transcription failed")

const transcribeInstruction = "Transcribe this audio accurately. Return only the transcribed text, nothing else."

// Transcribe sends the audio blob to Gemini and returns the trimmed text.
// Base64 payloads with a data-URI prefix must be decoded by the caller
// before reaching this point (see images.ParseDataURI); this method only
// ever transmits raw bytes.
func (t *implTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		t.logger.Error(ctx, "Transcription requested with empty audio blob")
		return "", ErrTranscription
	}

	text, err := t.callGemini(ctx, audio, mimeType)
	if err != nil {
		t.logger.Error(ctx, "Transcription error: %v", err)
		return "", ErrTranscription
	}

	return strings.TrimSpace(text), nil
}

// callGemini issues a single multimodal request with the audio attached
// as inline data. Rotates API keys on 429 / quota errors.
func (t *implTranscriber) callGemini(ctx context.Context, audio []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: audio}},
				{Text: transcribeInstruction},
			},
		},
	}

	attempts := len(t.apiKeys)
	var lastErr error

	for range attempts {
		key := t.apiKeys[t.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			t.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, t.model, contents, nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				t.logger.Warn(ctx, "Key %d rate limited, rotating...", t.currentKey+1)
				t.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (t *implTranscriber) rotateKey() {
	t.currentKey = (t.currentKey + 1) % len(t.apiKeys)
}
