package alert

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Beep synthesis parameters. The tone layers a base frequency with its
// 1.5x harmonic and applies a short fade envelope to avoid clicks.
const (
	beepSampleRate = 44100
	beepFrequency  = 800.0
	beepDuration   = time.Second
	beepFade       = 50 * time.Millisecond
)

// AudioSink plays a synthesized beep through the default audio device.
type AudioSink struct {
	ctx *oto.Context
	pcm []byte
}

// NewAudioSink opens the audio device and pre-renders the alert tone.
// Returns an error when no audio output is available; callers typically
// log it and continue with the remaining sinks.
func NewAudioSink() (*AudioSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   beepSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &AudioSink{
		ctx: ctx,
		pcm: beepPCM(beepDuration, beepFrequency, beepSampleRate),
	}, nil
}

// Name implements Sink.
func (s *AudioSink) Name() string { return "audio" }

// Notify implements Sink. Playback is asynchronous; the player is
// released once the tone finishes.
func (s *AudioSink) Notify(at time.Time) error {
	player := s.ctx.NewPlayer(bytes.NewReader(s.pcm))
	player.Play()

	go func() {
		for player.IsPlaying() {
			time.Sleep(50 * time.Millisecond)
		}
		player.Close()
	}()

	return nil
}

// beepPCM renders the alert tone as 16-bit little-endian mono PCM.
func beepPCM(duration time.Duration, frequency float64, sampleRate int) []byte {
	numSamples := int(float64(sampleRate) * duration.Seconds())
	fadeSamples := int(float64(sampleRate) * beepFade.Seconds())

	samples := make([]float64, numSamples)
	peak := 0.0
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		v := 0.5*math.Sin(2*math.Pi*frequency*t) + 0.3*math.Sin(2*math.Pi*frequency*1.5*t)

		switch {
		case i < fadeSamples:
			v *= float64(i) / float64(fadeSamples)
		case i >= numSamples-fadeSamples:
			v *= float64(numSamples-1-i) / float64(fadeSamples)
		}

		samples[i] = v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	pcm := make([]byte, 2*numSamples)
	for i, v := range samples {
		if peak > 0 {
			v /= peak
		}
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(int16(v*32767)))
	}
	return pcm
}
