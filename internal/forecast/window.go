package forecast

// infectionWindow the most recent span+1 per-step new-infection values,
// oldest first. The extra slot holds the value that resolves on the next
// step. Push returns a new window so a copied SimulationState never shares
// storage with its predecessor.
type infectionWindow struct {
	span   int
	values []float64
}

func newInfectionWindow(span int) infectionWindow {
	return infectionWindow{span: span}
}

// Full reports whether a value has aged out of the active span
func (w infectionWindow) Full() bool {
	return len(w.values) == w.span+1
}

// Expired returns the value that has just left the active span, 0 until Full
func (w infectionWindow) Expired() float64 {
	if !w.Full() {
		return 0
	}
	return w.values[0]
}

// Active sums the last span values, oldest first
func (w infectionWindow) Active() float64 {
	recent := w.values
	if w.Full() {
		recent = recent[1:]
	}
	var sum float64
	for _, v := range recent {
		sum += v
	}
	return sum
}

// Push appends v, dropping the oldest value once span+1 are held
func (w infectionWindow) Push(v float64) infectionWindow {
	kept := w.values
	if w.Full() {
		kept = kept[1:]
	}
	next := make([]float64, 0, w.span+1)
	next = append(next, kept...)
	next = append(next, v)
	return infectionWindow{span: w.span, values: next}
}

// Len number of values held
func (w infectionWindow) Len() int {
	return len(w.values)
}
