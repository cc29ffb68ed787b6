package slides

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voicedeck/voicedeck/internal/deck"
)

// parseSlides deserializes the model payload and enforces the structural
// invariants it promised: a non-empty array whose every element carries
// title, content, and speakerNotes, with content specifically an array.
// Schema-constrained output is not trusted on its own; a payload failing
// any check is rejected wholesale.
func parseSlides(payload []byte) ([]deck.Slide, error) {
	payload = stripCodeFence(payload)

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("response is not a JSON array of objects: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("response contains no slides")
	}

	out := make([]deck.Slide, 0, len(raw))
	for i, elem := range raw {
		slide, err := parseSlide(elem)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i, err)
		}
		out = append(out, slide)
	}

	return out, nil
}

func parseSlide(elem map[string]json.RawMessage) (deck.Slide, error) {
	var slide deck.Slide

	title, ok := elem["title"]
	if !ok {
		return slide, fmt.Errorf("missing title")
	}
	if err := json.Unmarshal(title, &slide.Title); err != nil {
		return slide, fmt.Errorf("title is not a string: %w", err)
	}

	content, ok := elem["content"]
	if !ok {
		return slide, fmt.Errorf("missing content")
	}
	if err := json.Unmarshal(content, &slide.Content); err != nil {
		return slide, fmt.Errorf("content is not an array of strings: %w", err)
	}
	if slide.Content == nil {
		// JSON null passes unmarshal but content must be an array.
		return slide, fmt.Errorf("content is not an array")
	}

	notes, ok := elem["speakerNotes"]
	if !ok {
		return slide, fmt.Errorf("missing speakerNotes")
	}
	if err := json.Unmarshal(notes, &slide.SpeakerNotes); err != nil {
		return slide, fmt.Errorf("speakerNotes is not a string: %w", err)
	}

	if ph, ok := elem["imagePlaceholder"]; ok {
		if err := json.Unmarshal(ph, &slide.ImagePlaceholder); err != nil {
			return slide, fmt.Errorf("imagePlaceholder is not a string: %w", err)
		}
	}

	return slide, nil
}

// stripCodeFence removes a markdown ```json fence if the model wrapped
// its payload in one despite the JSON response MIME type.
func stripCodeFence(payload []byte) []byte {
	s := strings.TrimSpace(string(payload))
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return []byte(strings.TrimSpace(s))
}
