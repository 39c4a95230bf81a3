package monitor

import (
	"testing"

	"github.com/jedawel/lenssafe/internal/detector"
)

var (
	leftEye  = detector.Point3D{X: 0.3, Y: 0.3, Z: 0.0}
	rightEye = detector.Point3D{X: 0.7, Y: 0.3, Z: 0.0}
)

// frameWith builds an observation with a face and the given hands.
func frameWith(hands ...detector.HandLandmarks) detector.Observation {
	face := detector.FaceWithEyesAt(leftEye, rightEye)
	return detector.Observation{Face: &face, Hands: hands}
}

func handAt(x, y, z float64) detector.HandLandmarks {
	return detector.HandWithFingertipAt(detector.Point3D{X: x, Y: y, Z: z})
}

func TestMonitor_ConfirmsSustainedRubbing(t *testing.T) {
	m := New(DefaultConfig())

	// A hand sweeping across the left eye region, 0.01 per frame. The
	// first frame has no motion history, so with a confirmation
	// threshold of 2 the detection confirms on the third frame.
	results := make([]Result, 0, 3)
	for i := 0; i < 3; i++ {
		obs := frameWith(handAt(0.28+0.01*float64(i), 0.30, 0.02))
		results = append(results, m.ProcessFrame(obs))
	}

	if results[0].Rubbing {
		t.Error("frame 1: candidate before any motion history")
	}
	if !results[1].Rubbing || results[1].Confirmed {
		t.Errorf("frame 2: got rubbing=%v confirmed=%v, want candidate without confirmation",
			results[1].Rubbing, results[1].Confirmed)
	}
	if !results[2].Confirmed {
		t.Error("frame 3: expected confirmed detection")
	}
}

func TestMonitor_StationaryHandNeverConfirms(t *testing.T) {
	m := New(DefaultConfig())

	// A hand resting right on the eye, matching depth, never moving.
	obs := frameWith(handAt(0.32, 0.31, 0.01))
	for i := 0; i < 100; i++ {
		result := m.ProcessFrame(obs)
		if result.Rubbing || result.Confirmed {
			t.Fatalf("frame %d: stationary hand produced rubbing=%v confirmed=%v",
				i+1, result.Rubbing, result.Confirmed)
		}
	}
}

func TestMonitor_InsufficientMotionNeverConfirms(t *testing.T) {
	m := New(DefaultConfig())

	// Sub-threshold creep: 0.0005 per frame, a 0.002 span over the full
	// five-frame window against a 0.004 threshold.
	for i := 0; i < 50; i++ {
		obs := frameWith(handAt(0.30+0.0005*float64(i%5), 0.30, 0.0))
		if result := m.ProcessFrame(obs); result.Confirmed {
			t.Fatalf("frame %d: confirmed with sub-threshold motion", i+1)
		}
	}
}

func TestMonitor_NoFaceMeansNoCandidate(t *testing.T) {
	m := New(DefaultConfig())

	obs := detector.Observation{Hands: []detector.HandLandmarks{handAt(0.30, 0.30, 0.0)}}
	for i := 0; i < 10; i++ {
		result := m.ProcessFrame(obs)
		if result.Rubbing || result.Confirmed {
			t.Fatal("candidate signal without a face")
		}
		if result.FaceDetected {
			t.Fatal("face reported detected on a faceless frame")
		}
	}
}

func TestMonitor_HandDisappearanceResetsDetection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConsecutiveFramesThreshold = 3
	m := New(cfg)

	// Two candidate frames, one frame short of confirmation.
	m.ProcessFrame(frameWith(handAt(0.28, 0.30, 0.0)))
	m.ProcessFrame(frameWith(handAt(0.29, 0.30, 0.0)))
	m.ProcessFrame(frameWith(handAt(0.30, 0.30, 0.0)))

	// The hand vanishes for one frame: counters and history both reset.
	m.ProcessFrame(frameWith())

	// On reappearing, the first frame has no motion history and the
	// count restarts from scratch.
	r := m.ProcessFrame(frameWith(handAt(0.31, 0.30, 0.0)))
	if r.Rubbing {
		t.Error("candidate on first frame after reappearing")
	}
	r = m.ProcessFrame(frameWith(handAt(0.32, 0.30, 0.0)))
	if r.Confirmed {
		t.Error("confirmed too early after a disappearance reset")
	}
}

func TestMonitor_EitherEyeConfirms(t *testing.T) {
	m := New(DefaultConfig())

	// Rub the right eye instead of the left.
	confirmed := false
	for i := 0; i < 4; i++ {
		obs := frameWith(handAt(0.68+0.01*float64(i), 0.30, 0.0))
		if m.ProcessFrame(obs).Confirmed {
			confirmed = true
		}
	}
	if !confirmed {
		t.Error("rubbing the right eye never confirmed")
	}
}

func TestMonitor_ResetClearsTemporalState(t *testing.T) {
	m := New(DefaultConfig())

	m.ProcessFrame(frameWith(handAt(0.28, 0.30, 0.0)))
	m.ProcessFrame(frameWith(handAt(0.29, 0.30, 0.0)))
	m.Reset()

	// After a reset the next frame starts with empty history.
	r := m.ProcessFrame(frameWith(handAt(0.30, 0.30, 0.0)))
	if r.Rubbing || r.Confirmed {
		t.Error("temporal state survived Reset")
	}
}

func TestSlotKeys(t *testing.T) {
	left := detector.HandWithFingertipAt(detector.Point3D{X: 0.2, Y: 0.5})
	left.Handedness = "Left"
	right := detector.HandWithFingertipAt(detector.Point3D{X: 0.8, Y: 0.5})
	right.Handedness = "Right"

	tests := []struct {
		name  string
		hands []detector.HandLandmarks
		want  []string
	}{
		{
			name:  "distinct handedness labels",
			hands: []detector.HandLandmarks{left, right},
			want:  []string{"Left", "Right"},
		},
		{
			name:  "duplicate labels fall back to indices",
			hands: []detector.HandLandmarks{right, right},
			want:  []string{"hand-0", "hand-1"},
		},
		{
			name:  "missing labels fall back to indices",
			hands: []detector.HandLandmarks{{}, {}},
			want:  []string{"hand-0", "hand-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slotKeys(tt.hands)
			if len(got) != len(tt.want) {
				t.Fatalf("slotKeys returned %d keys, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("key %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
