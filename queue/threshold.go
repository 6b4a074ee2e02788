package queue

// initialRange is the starting half-width of a fresh threshold.
const initialRange = 50

// Threshold is the rank window a queued player will accept opponents from.
// It only ever widens. Not safe for concurrent use; the ranked strategy
// guards it.
type Threshold struct {
	lower int
	upper int
	span  int
}

// NewThreshold centers a window of the initial half-width on the player's
// rank.
func NewThreshold(midpoint int) *Threshold {
	return &Threshold{
		lower: midpoint - initialRange,
		upper: midpoint + initialRange,
		span:  initialRange,
	}
}

// Contains reports whether a rank falls inside the window.
func (t *Threshold) Contains(rank int) bool {
	return rank >= t.lower && rank <= t.upper
}

// Bounds returns the current window, for logs.
func (t *Threshold) Bounds() (lower, upper int) {
	return t.lower, t.upper
}

// Expand doubles the widening range and pushes both bounds out by it, so
// successive relaxations accelerate.
func (t *Threshold) Expand() {
	t.span *= 2
	t.lower -= t.span
	t.upper += t.span
}
