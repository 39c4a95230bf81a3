package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It plays back a scripted sequence of observations and errors, falling
// back to a fixed observation once the sequence is exhausted.
type MockDetector struct {
	mu    sync.Mutex
	queue []scriptedFrame
	obs   Observation
	err   error
}

type scriptedFrame struct {
	obs Observation
	err error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetObservation sets the observation returned by Detect once the
// scripted queue is empty.
func (m *MockDetector) SetObservation(obs Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = obs
}

// Enqueue appends observations to the scripted playback sequence.
func (m *MockDetector) Enqueue(obs ...Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range obs {
		m.queue = append(m.queue, scriptedFrame{obs: o})
	}
}

// EnqueueError appends a single failing detection to the scripted
// playback sequence.
func (m *MockDetector) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, scriptedFrame{err: err})
}

// SetError sets the error that will be returned by every Detect call,
// scripted frames included.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next scripted observation, or the fixed one.
func (m *MockDetector) Detect(frame *gocv.Mat) (Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Observation{}, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next.obs, next.err
	}
	return m.obs, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// FaceWithEyesAt returns a full face mesh in which every landmark of the
// left eye region sits at left and every landmark of the right eye region
// sits at right, so the resolved eye references are exactly those points.
func FaceWithEyesAt(left, right Point3D) FaceLandmarks {
	face := FaceLandmarks{
		Points: make([]Point3D, NumFaceLandmarks),
		Score:  0.95,
	}

	// Park the rest of the mesh away from both eyes.
	for i := range face.Points {
		face.Points[i] = Point3D{X: 0.5, Y: 0.6, Z: 0.0}
	}
	for _, idx := range LeftEyeIndices {
		face.Points[idx] = left
	}
	for _, idx := range RightEyeIndices {
		face.Points[idx] = right
	}

	return face
}

// HandWithFingertipAt returns a hand whose index fingertip (the tracked
// detection point) sits at p. The remaining landmarks trail below the
// fingertip roughly where a pointing hand would have them.
func HandWithFingertipAt(p Point3D) HandLandmarks {
	hand := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	for i := 0; i < NumHandLandmarks; i++ {
		hand.Points[i] = Point3D{X: p.X, Y: p.Y + 0.2, Z: p.Z}
	}
	hand.Points[IndexDIP] = Point3D{X: p.X, Y: p.Y + 0.05, Z: p.Z}
	hand.Points[IndexPIP] = Point3D{X: p.X, Y: p.Y + 0.1, Z: p.Z}
	hand.Points[IndexTip] = p

	return hand
}
