package deck

// Slide is one generated slide. Title, Content, and SpeakerNotes are
// always present (Content may be empty but never missing). A slide never
// owns image data; ImagePlaceholder is a weak positional reference
// resolved at render time against the session's image list.
type Slide struct {
	Title            string   `json:"title"`
	Content          []string `json:"content"`
	SpeakerNotes     string   `json:"speakerNotes"`
	ImagePlaceholder string   `json:"imagePlaceholder,omitempty"`
}

// Presentation is an ordered, non-empty slide sequence. It is produced
// atomically by generation and never mutated afterwards; a new request
// replaces it wholesale.
type Presentation struct {
	slides []Slide
}

// NewPresentation copies the slides into an immutable presentation.
func NewPresentation(slides []Slide) *Presentation {
	cp := make([]Slide, len(slides))
	copy(cp, slides)
	return &Presentation{slides: cp}
}

// Len returns the number of slides.
func (p *Presentation) Len() int {
	return len(p.slides)
}

// Slide returns the slide at the given index.
func (p *Presentation) Slide(i int) Slide {
	return p.slides[i]
}

// Slides returns a copy of the slide sequence.
func (p *Presentation) Slides() []Slide {
	cp := make([]Slide, len(p.slides))
	copy(cp, p.slides)
	return cp
}
