package monitor

// Eye identifies which eye a (hand, eye) pair refers to.
type Eye string

const (
	EyeLeft  Eye = "left"
	EyeRight Eye = "right"
)

// Pair identifies one monitored (hand slot, eye) combination.
type Pair struct {
	Slot string
	Eye  Eye
}

// Confirmer turns noisy per-frame candidate signals into confirmed
// detections by requiring the signal to hold for a number of consecutive
// frames. Counters are kept per (hand, eye) pair so unrelated
// combinations cannot cross-talk, and any frame in which a pair's signal
// is false (including the pair's inputs being absent) resets that pair's
// count to zero.
type Confirmer struct {
	threshold int
	counts    map[Pair]int
}

// NewConfirmer creates a Confirmer that confirms after threshold
// consecutive candidate frames. A threshold of 1 confirms on the first
// candidate frame and is a valid configuration.
func NewConfirmer(threshold int) *Confirmer {
	return &Confirmer{
		threshold: threshold,
		counts:    make(map[Pair]int),
	}
}

// Advance applies one frame's candidate signals. Pairs absent from the
// map, or present with false, reset to zero; pairs present with true
// increment. Returns whether any pair is confirmed after the update.
// Confirmation is re-entrant: a pair that stays true keeps reporting
// confirmed on every subsequent frame.
func (c *Confirmer) Advance(candidates map[Pair]bool) bool {
	for p := range c.counts {
		if !candidates[p] {
			delete(c.counts, p)
		}
	}

	confirmed := false
	for p, candidate := range candidates {
		if !candidate {
			continue
		}
		c.counts[p]++
		if c.counts[p] >= c.threshold {
			confirmed = true
		}
	}
	return confirmed
}

// Count returns the current consecutive-frame count for a pair.
func (c *Confirmer) Count(p Pair) int {
	return c.counts[p]
}

// Reset clears all pair counters.
func (c *Confirmer) Reset() {
	c.counts = make(map[Pair]int)
}
