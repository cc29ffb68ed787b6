package deck

// Navigator holds the zero-based view index over a presentation.
// Navigation only moves the index; the slide data is immutable.
type Navigator struct {
	pres    *Presentation
	current int
}

// NewNavigator starts at slide 0 of the given presentation.
func NewNavigator(pres *Presentation) *Navigator {
	return &Navigator{pres: pres}
}

// Replace swaps in a new presentation and resets the index to 0.
func (n *Navigator) Replace(pres *Presentation) {
	n.pres = pres
	n.current = 0
}

// Current returns the current slide index.
func (n *Navigator) Current() int {
	return n.current
}

// Next advances one slide. No-op at the last slide; never wraps.
func (n *Navigator) Next() {
	if n.pres == nil {
		return
	}
	if n.current < n.pres.Len()-1 {
		n.current++
	}
}

// Previous steps back one slide. No-op at slide 0; never wraps.
func (n *Navigator) Previous() {
	if n.current > 0 {
		n.current--
	}
}
