// Package detector provides face and hand landmark detection for the LensSafe eye-rubbing monitor.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist            = 0
	ThumbCMC         = 1
	ThumbMCP         = 2
	ThumbIP          = 3
	ThumbTip         = 4
	IndexMCP         = 5
	IndexPIP         = 6
	IndexDIP         = 7
	IndexTip         = 8
	MiddleMCP        = 9
	MiddlePIP        = 10
	MiddleDIP        = 11
	MiddleTip        = 12
	RingMCP          = 13
	RingPIP          = 14
	RingDIP          = 15
	RingTip          = 16
	PinkyMCP         = 17
	PinkyPIP         = 18
	PinkyDIP         = 19
	PinkyTip         = 20
	NumHandLandmarks = 21
)

// NumFaceLandmarks is the number of points in a MediaPipe face mesh.
const NumFaceLandmarks = 468

// Face-mesh indices outlining the center region of each eye. Averaging
// these seven points gives a per-eye reference point that is robust to
// single-landmark jitter.
var (
	LeftEyeIndices  = [7]int{33, 133, 160, 159, 158, 157, 173}
	RightEyeIndices = [7]int{362, 263, 387, 386, 385, 384, 398}
)

// maxEyeIndex is the highest face-mesh index the eye resolver reads.
const maxEyeIndex = 398

// Point3D represents a 3D point in space with x, y, z coordinates.
// X and Y are normalized to [0,1] against the frame dimensions; Z is a
// unitless relative depth where more negative means nearer the camera.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumHandLandmarks]Point3D `json:"points"`
	Handedness string                    `json:"handedness"` // "Left" or "Right"
	Score      float64                   `json:"score"`
}

// TrackedPoint returns the primary detection point used for rubbing
// analysis, the index fingertip.
func (h *HandLandmarks) TrackedPoint() Point3D {
	return h.Points[IndexTip]
}

// FaceLandmarks represents a detected face mesh.
type FaceLandmarks struct {
	Points []Point3D `json:"points"`
	Score  float64   `json:"score"`
}

// Observation is everything the landmark provider found in one frame.
// A nil face or an empty hand slice means "not currently detected" and is
// a normal, non-error result.
type Observation struct {
	Face  *FaceLandmarks  `json:"face,omitempty"`
	Hands []HandLandmarks `json:"hands"`
}

// EyeReferences resolves the left and right eye reference points as the
// centroid of the fixed per-eye landmark subsets. Returns ok=false when
// the face is absent or the mesh does not cover the eye indices; callers
// treat that as "no candidate this frame".
func (f *FaceLandmarks) EyeReferences() (left, right Point3D, ok bool) {
	if f == nil || len(f.Points) <= maxEyeIndex {
		return Point3D{}, Point3D{}, false
	}
	return centroid(f.Points, LeftEyeIndices), centroid(f.Points, RightEyeIndices), true
}

func centroid(points []Point3D, indices [7]int) Point3D {
	var c Point3D
	for _, idx := range indices {
		c.X += points[idx].X
		c.Y += points[idx].Y
		c.Z += points[idx].Z
	}
	n := float64(len(indices))
	c.X /= n
	c.Y /= n
	c.Z /= n
	return c
}
