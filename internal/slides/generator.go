package slides

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/voicedeck/voicedeck/internal/deck"
	"github.com/voicedeck/voicedeck/internal/images"
)

// ErrGeneration is the single error class surfaced to callers. Transport
// failures, parse failures, and schema-validation failures all map onto
// it; a partially valid presentation is never exposed.
var ErrGeneration = errors.New("generation failed")

const systemInstruction = `You are a presentation designer. Convert the user's narration into a slide deck.

Rules:
- The first slide is always a title slide introducing the topic.
- Follow the logical flow of the narration; one idea per slide.
- Each slide has one concise title, a short bullet list, and speaker notes the presenter can read aloud.
- If an image manifest is provided, place images where they support the content by setting imagePlaceholder to the matching IMAGE_<n> token. Use each image at most once and only when relevant.`

// Generate builds the multimodal request, issues one schema-constrained
// call, and validates the returned payload before anything downstream
// sees it.
func (g *implGenerator) Generate(ctx context.Context, transcript string, imgs []images.UploadedImage) (*deck.Presentation, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		g.logger.Error(ctx, "Generation requested with empty transcript")
		return nil, ErrGeneration
	}

	payload, err := g.callGemini(ctx, buildParts(transcript, imgs))
	if err != nil {
		g.logger.Error(ctx, "Generation error: %v", err)
		return nil, ErrGeneration
	}

	parsed, err := parseSlides([]byte(payload))
	if err != nil {
		g.logger.Error(ctx, "Generation response did not match expected format: %v", err)
		return nil, ErrGeneration
	}

	g.logger.Info(ctx, "Generated %d slides", len(parsed))
	return deck.NewPresentation(parsed), nil
}

// buildParts composes the prompt text and, when images are present,
// appends the enumerated manifest followed by the raw image payloads in
// the same order.
func buildParts(transcript string, imgs []images.UploadedImage) []*genai.Part {
	var prompt strings.Builder
	prompt.WriteString("Narration:\n")
	prompt.WriteString(transcript)

	if len(imgs) > 0 {
		prompt.WriteString("\n\nAvailable images:\n")
		for i, img := range imgs {
			desc := strings.TrimSpace(img.Description)
			if desc == "" {
				desc = "an uploaded image"
			}
			fmt.Fprintf(&prompt, "IMAGE_%d: %s\n", i+1, desc)
		}
	}

	parts := []*genai.Part{{Text: prompt.String()}}
	for _, img := range imgs {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
		})
	}

	return parts
}

// responseSchema constrains the model to an array of slide objects with
// required title/content/speakerNotes and an optional imagePlaceholder.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title": {Type: genai.TypeString},
				"content": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"speakerNotes":     {Type: genai.TypeString},
				"imagePlaceholder": {Type: genai.TypeString},
			},
			Required: []string{"title", "content", "speakerNotes"},
		},
	}
}

// callGemini issues the structured-generation request and returns the raw
// JSON payload. Rotates API keys on 429 / quota errors.
func (g *implGenerator) callGemini(ctx context.Context, parts []*genai.Part) (string, error) {
	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: parts},
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      genai.Ptr(g.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}

	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		key := g.apiKeys[g.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", g.currentKey+1)
				g.rotateKey()
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

func (g *implGenerator) rotateKey() {
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}
