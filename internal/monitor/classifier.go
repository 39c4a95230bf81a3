package monitor

import (
	"math"

	"github.com/jedawel/lenssafe/internal/detector"
)

// Classifier decides, for one (hand, eye) pair in one frame, whether the
// hand is a rubbing candidate. All three gates must hold:
//
//  1. planar distance from fingertip to eye reference < EyeRubThreshold
//  2. absolute depth difference <= DepthThreshold, so a hand waving well
//     in front of (or behind) the face plane is rejected
//  3. motion magnitude >= MotionThreshold, so a hand merely resting
//     against the face never qualifies
//
// The thresholds are pure parameters in normalized frame units; the
// classifier applies no rescaling of its own.
type Classifier struct {
	EyeRubThreshold float64
	DepthThreshold  float64
	MotionThreshold float64
}

// Candidate reports whether the hand point is rubbing the eye this frame,
// given the hand slot's current motion magnitude.
func (c Classifier) Candidate(hand, eye detector.Point3D, motion float64) bool {
	dx := hand.X - eye.X
	dy := hand.Y - eye.Y
	if math.Sqrt(dx*dx+dy*dy) >= c.EyeRubThreshold {
		return false
	}
	if math.Abs(hand.Z-eye.Z) > c.DepthThreshold {
		return false
	}
	return motion >= c.MotionThreshold
}
