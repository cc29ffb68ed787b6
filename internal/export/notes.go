package export

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/voicedeck/voicedeck/internal/deck"
)

const (
	fontName = "Calibri"
	fontSize = 11
)

// writeNotesDocx renders the presentation as a printable handout: one
// section per slide with its title, bullets, and speaker notes.
func writeNotesDocx(pres *deck.Presentation, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), "Speaker Notes", true, 16)
	doc.AddParagraph("")

	for i := 0; i < pres.Len(); i++ {
		slide := pres.Slide(i)

		heading := fmt.Sprintf("Slide %d: %s", i+1, slide.Title)
		addStyledRun(doc.AddParagraph(""), heading, true, 14)

		for _, bullet := range slide.Content {
			p := doc.AddParagraph("")
			addStyledRun(p, "• "+bullet, false, fontSize)
		}

		if slide.SpeakerNotes != "" {
			p := doc.AddParagraph("")
			addStyledRun(p, "Notes: ", true, fontSize)
			p.AddText(slide.SpeakerNotes).Font(fontName).Size(fontSize).Color("000000")
		}

		doc.AddParagraph("")
	}

	return doc.SaveTo(outputPath)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
