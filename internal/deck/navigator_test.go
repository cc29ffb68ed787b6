package deck

import "testing"

func fivePresentation() *Presentation {
	slides := make([]Slide, 5)
	for i := range slides {
		slides[i] = Slide{Title: "Slide", Content: []string{}, SpeakerNotes: ""}
	}
	return NewPresentation(slides)
}

func TestNavigatorBounds(t *testing.T) {
	nav := NewNavigator(fivePresentation())

	// Previous at index 0 is a no-op.
	nav.Previous()
	if nav.Current() != 0 {
		t.Fatalf("Previous() at start moved index to %d", nav.Current())
	}

	// Four Next calls reach the last slide.
	for i := 0; i < 4; i++ {
		nav.Next()
	}
	if nav.Current() != 4 {
		t.Fatalf("after 4 Next() calls index = %d, want 4", nav.Current())
	}

	// A fifth Next is a no-op; never wraps.
	nav.Next()
	if nav.Current() != 4 {
		t.Fatalf("Next() at end moved index to %d", nav.Current())
	}

	nav.Previous()
	if nav.Current() != 3 {
		t.Fatalf("Previous() = %d, want 3", nav.Current())
	}
}

func TestNavigatorReplaceResets(t *testing.T) {
	nav := NewNavigator(fivePresentation())
	nav.Next()
	nav.Next()

	nav.Replace(NewPresentation([]Slide{{Title: "Only", Content: []string{}}}))
	if nav.Current() != 0 {
		t.Errorf("Replace() left index at %d, want 0", nav.Current())
	}

	nav.Next()
	if nav.Current() != 0 {
		t.Errorf("Next() over single slide moved index to %d", nav.Current())
	}
}

func TestNavigatorNilPresentation(t *testing.T) {
	nav := NewNavigator(nil)
	nav.Next()
	nav.Previous()
	if nav.Current() != 0 {
		t.Errorf("navigation without presentation moved index to %d", nav.Current())
	}
}

func TestPresentationImmutable(t *testing.T) {
	src := []Slide{{Title: "A", Content: []string{"x"}}}
	pres := NewPresentation(src)

	src[0].Title = "mutated"
	if pres.Slide(0).Title != "A" {
		t.Error("presentation shares backing array with caller")
	}

	out := pres.Slides()
	out[0].Title = "mutated"
	if pres.Slide(0).Title != "A" {
		t.Error("Slides() exposes internal backing array")
	}
}
