// Package audio plays short tones for collisions.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const sampleRate = beep.SampleRate(44100)

// ImpactParams maps contact approach speed to a tone
type ImpactParams struct {
	MinSpeed  float64 // quieter contacts are silent
	MaxSpeed  float64 // louder contacts play at full volume
	BaseFreq  float64 // pitch of the softest audible impact, in Hz
	FreqRange float64 // pitch added at MaxSpeed
	Duration  time.Duration

	// Per-pair throttle
	MaxPerPair int
	PairWindow time.Duration
}

// DefaultImpactParams returns settings tuned for the bundled scenes
func DefaultImpactParams() ImpactParams {
	return ImpactParams{
		MinSpeed:   15,
		MaxSpeed:   400,
		BaseFreq:   220,
		FreqRange:  660,
		Duration:   90 * time.Millisecond,
		MaxPerPair: 2,
		PairWindow: 250 * time.Millisecond,
	}
}

// Map returns the frequency and linear volume (0, 1] for an impact at
// speed. ok is false when the impact is too soft to hear.
func (p ImpactParams) Map(speed float64) (freq, volume float64, ok bool) {
	if speed < p.MinSpeed || speed <= 0 {
		return 0, 0, false
	}
	t := 1.0
	if p.MaxSpeed > p.MinSpeed {
		t = math.Min(1, (speed-p.MinSpeed)/(p.MaxSpeed-p.MinSpeed))
	}
	volume = 0.1 + 0.9*t
	freq = p.BaseFreq + p.FreqRange*t
	return freq, volume, true
}

// decay fades a stream out exponentially over a fixed number of samples
type decay struct {
	streamer beep.Streamer
	position int
	total    int
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if d.position >= d.total {
			return i, false
		}
		g := math.Exp(-5 * float64(d.position) / float64(d.total))
		samples[i][0] *= g
		samples[i][1] *= g
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// NewImpact builds a decaying sine of the given pitch and volume
func NewImpact(rate beep.SampleRate, freq, volume float64, duration time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	n := rate.N(duration)
	return &effects.Volume{
		Streamer: &decay{streamer: beep.Take(n, sine), total: n},
		Base:     2,
		Volume:   math.Log2(volume),
	}, nil
}
