package alert

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestBeepPCM(t *testing.T) {
	pcm := beepPCM(time.Second, 800, 44100)

	if want := 2 * 44100; len(pcm) != want {
		t.Fatalf("pcm length = %d, want %d", len(pcm), want)
	}

	// The fade-in starts from silence.
	if first := int16(binary.LittleEndian.Uint16(pcm)); first != 0 {
		t.Errorf("first sample = %d, want 0", first)
	}

	// After normalization the loudest sample should sit near full scale
	// and nothing may exceed it.
	var peak int16
	for i := 0; i < len(pcm); i += 2 {
		s := int16(binary.LittleEndian.Uint16(pcm[i:]))
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	if peak < 30000 {
		t.Errorf("peak sample = %d, want near full scale", peak)
	}

	// The middle of the tone must not be silent.
	silent := true
	for i := len(pcm)/2 - 100; i < len(pcm)/2+100; i += 2 {
		if int16(binary.LittleEndian.Uint16(pcm[i:])) != 0 {
			silent = false
			break
		}
	}
	if silent {
		t.Error("tone is silent in the middle")
	}
}

func TestBeepPCM_ShortDuration(t *testing.T) {
	pcm := beepPCM(100*time.Millisecond, 800, 44100)

	if want := 2 * 4410; len(pcm) != want {
		t.Errorf("pcm length = %d, want %d", len(pcm), want)
	}
}
