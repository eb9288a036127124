package riverlight

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// RiverConfig shapes the meandering river band.
type RiverConfig struct {
	// Step is the vertical distance between boundary samples in pixels.
	Step float64
	// HalfWidth is the distance from the wave centre line to each bank.
	HalfWidth float64
	// Amplitude is the base sideways swing of the wave.
	Amplitude float64
	// NoiseAmplitude adds extra swing toward the middle of the canvas.
	NoiseAmplitude float64
	// Seed seeds the noise field. Zero keeps a fixed default field.
	Seed int64
}

const (
	rowFrequency   = 0.01
	frameFrequency = 0.003
	noiseTimeScale = 0.001
	rightNoiseBias = 100.0

	// Perlin parameters: weight per octave, frequency multiplier, octaves.
	noiseAlpha   = 2
	noiseBeta    = 2
	noiseOctaves = 3
)

// RiverShape produces a RiverBoundary for a given canvas size and frame
// number from a smooth noise-modulated sine wave.
type RiverShape struct {
	cfg   RiverConfig
	noise *perlin.Perlin
}

// NewRiverShape creates a shape generator for cfg.
func NewRiverShape(cfg RiverConfig) *RiverShape {
	return &RiverShape{
		cfg:   cfg,
		noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, cfg.Seed),
	}
}

// Build samples the river at every Step rows from 0 to height inclusive.
// The returned boundary owns a fresh slice; callers may keep it across
// frames.
func (s *RiverShape) Build(width, height float64, frame uint64) RiverBoundary {
	step := s.cfg.Step
	if step <= 0 || height <= 0 || !isFinite(width) || !isFinite(height) {
		return RiverBoundary{}
	}

	n := int(height/step) + 1
	samples := make([]BoundarySample, 0, n)
	t := float64(frame)
	mid := width / 2

	for i := 0; i < n; i++ {
		y := float64(i) * step
		ease := math.Sin(y / height * math.Pi)
		left := mid + s.wave(y, t, 0, ease) - s.cfg.HalfWidth
		right := mid + s.wave(y, t, rightNoiseBias, ease) + s.cfg.HalfWidth
		samples = append(samples, BoundarySample{Row: y, Left: left, Right: right})
	}
	return RiverBoundary{Samples: samples}
}

// wave returns the sideways offset of a bank at row y. bias shifts the
// noise lookup so the two banks wander independently.
func (s *RiverShape) wave(y, t, bias, ease float64) float64 {
	n := s.sampleNoise(y*rowFrequency+bias, t*noiseTimeScale+bias)
	return math.Sin(y*rowFrequency+t*frameFrequency+n*2*math.Pi) *
		(s.cfg.Amplitude + n*s.cfg.NoiseAmplitude*ease)
}

// sampleNoise maps the Perlin field into [0, 1].
func (s *RiverShape) sampleNoise(x, y float64) float64 {
	v := (s.noise.Noise2D(x, y) + 1) / 2
	return math.Max(0, math.Min(1, v))
}
