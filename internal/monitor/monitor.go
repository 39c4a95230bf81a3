package monitor

import (
	"fmt"

	"github.com/jedawel/lenssafe/internal/detector"
)

// Config holds the detection policy parameters. All values are in
// normalized frame units except the two frame counts.
type Config struct {
	EyeRubThreshold            float64
	DepthThreshold             float64
	MotionThreshold            float64
	MotionHistoryFrames        int
	ConsecutiveFramesThreshold int
}

// DefaultConfig returns the reference detection policy.
func DefaultConfig() Config {
	return Config{
		EyeRubThreshold:            0.15,
		DepthThreshold:             0.08,
		MotionThreshold:            0.004,
		MotionHistoryFrames:        5,
		ConsecutiveFramesThreshold: 2,
	}
}

// Result is the outcome of processing one frame.
type Result struct {
	FaceDetected  bool `json:"faceDetected"`
	HandsDetected bool `json:"handsDetected"`
	// Rubbing is true when any (hand, eye) pair produced a candidate
	// signal this frame.
	Rubbing bool `json:"rubbing"`
	// Confirmed is true when any pair has held its candidate signal for
	// the configured number of consecutive frames.
	Confirmed bool `json:"confirmed"`
}

// Monitor fuses eye references, hand motion history and the per-frame
// classifier into confirmed rubbing detections. It owns the only two
// carriers of temporal state, the motion histories and the confirmation
// counters; all other geometry is recomputed fresh each frame.
//
// Monitor is not safe for concurrent use: frames are processed one at a
// time on the single frame-loop goroutine.
type Monitor struct {
	classifier Classifier
	tracker    *MotionTracker
	confirmer  *Confirmer
}

// New creates a Monitor with the given policy. The configuration is
// assumed validated; see the config package.
func New(cfg Config) *Monitor {
	return &Monitor{
		classifier: Classifier{
			EyeRubThreshold: cfg.EyeRubThreshold,
			DepthThreshold:  cfg.DepthThreshold,
			MotionThreshold: cfg.MotionThreshold,
		},
		tracker:   NewMotionTracker(cfg.MotionHistoryFrames),
		confirmer: NewConfirmer(cfg.ConsecutiveFramesThreshold),
	}
}

// ProcessFrame evaluates one frame's landmarks. Absent face or hands is a
// normal "no candidate" frame: affected pair counters reset and the
// histories of undetected hands are cleared.
func (m *Monitor) ProcessFrame(obs detector.Observation) Result {
	result := Result{
		FaceDetected:  obs.Face != nil,
		HandsDetected: len(obs.Hands) > 0,
	}

	slots := slotKeys(obs.Hands)
	observed := make(map[string]bool, len(slots))
	for i := range obs.Hands {
		observed[slots[i]] = true
		m.tracker.Observe(slots[i], obs.Hands[i].TrackedPoint())
	}
	m.tracker.Sweep(observed)

	left, right, faceOK := obs.Face.EyeReferences()

	candidates := make(map[Pair]bool, 2*len(slots))
	if faceOK {
		for i := range obs.Hands {
			hand := obs.Hands[i].TrackedPoint()
			motion := m.tracker.Magnitude(slots[i])

			leftHit := m.classifier.Candidate(hand, left, motion)
			rightHit := m.classifier.Candidate(hand, right, motion)
			candidates[Pair{Slot: slots[i], Eye: EyeLeft}] = leftHit
			candidates[Pair{Slot: slots[i], Eye: EyeRight}] = rightHit
			if leftHit || rightHit {
				result.Rubbing = true
			}
		}
	}

	result.Confirmed = m.confirmer.Advance(candidates)
	return result
}

// Reset clears all temporal state, as when monitoring is re-enabled after
// a pause.
func (m *Monitor) Reset() {
	m.tracker.Reset()
	m.confirmer.Reset()
}

// slotKeys assigns a stable identity to each detected hand. Handedness
// labels are used when the provider reports distinct ones; otherwise
// hands fall back to their detection index.
func slotKeys(hands []detector.HandLandmarks) []string {
	keys := make([]string, len(hands))
	seen := make(map[string]bool, len(hands))

	distinct := true
	for i := range hands {
		label := hands[i].Handedness
		if label == "" || seen[label] {
			distinct = false
			break
		}
		seen[label] = true
	}

	for i := range hands {
		if distinct {
			keys[i] = hands[i].Handedness
		} else {
			keys[i] = fmt.Sprintf("hand-%d", i)
		}
	}
	return keys
}
