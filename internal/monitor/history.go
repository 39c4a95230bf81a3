// Package monitor implements the eye-rubbing detection core: motion
// history tracking, the per-frame rubbing classifier, and the
// consecutive-frame confirmation state machine.
package monitor

import (
	"math"

	"github.com/jedawel/lenssafe/internal/detector"
)

// MotionTracker maintains, per hand slot, a sliding window of the most
// recently observed positions of that hand's tracked fingertip. The
// derived motion magnitude is the planar displacement between the oldest
// and newest entries, which rewards the sustained movement of a rubbing
// gesture while staying robust to single-frame landmark jitter.
type MotionTracker struct {
	window int
	slots  map[string][]detector.Point3D
}

// NewMotionTracker creates a tracker holding at most window positions per
// hand slot. The window must be positive.
func NewMotionTracker(window int) *MotionTracker {
	return &MotionTracker{
		window: window,
		slots:  make(map[string][]detector.Point3D),
	}
}

// Observe appends the hand's tracked point to the slot's history,
// evicting the oldest entry once the window is full.
func (t *MotionTracker) Observe(slot string, p detector.Point3D) {
	history := t.slots[slot]
	if len(history) >= t.window {
		copy(history, history[1:])
		history = history[:t.window-1]
	}
	t.slots[slot] = append(history, p)
}

// Missing clears the slot's history. Called when the hand is not detected
// in a frame, so a reappearing hand cannot claim stale motion.
func (t *MotionTracker) Missing(slot string) {
	delete(t.slots, slot)
}

// Sweep clears every tracked slot that was not observed this frame.
func (t *MotionTracker) Sweep(observed map[string]bool) {
	for slot := range t.slots {
		if !observed[slot] {
			delete(t.slots, slot)
		}
	}
}

// Magnitude returns the planar Euclidean displacement between the oldest
// and newest entries of the slot's history, in normalized frame units.
// Fewer than two samples yields zero.
func (t *MotionTracker) Magnitude(slot string) float64 {
	history := t.slots[slot]
	if len(history) < 2 {
		return 0
	}

	oldest := history[0]
	newest := history[len(history)-1]
	dx := newest.X - oldest.X
	dy := newest.Y - oldest.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Len returns the number of samples currently held for the slot.
func (t *MotionTracker) Len(slot string) int {
	return len(t.slots[slot])
}

// Reset clears all slot histories.
func (t *MotionTracker) Reset() {
	t.slots = make(map[string][]detector.Point3D)
}
