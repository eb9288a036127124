package riverlight

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds every tunable of a Session. Start from DefaultConfig and
// override fields, or load overrides from an INI file with LoadConfig.
type Config struct {
	Gesture GestureConfig
	Ripple  RippleConfig
	Phrases PhraseConfig
	River   RiverConfig

	// PollInterval is the detection cadence, independent of the frame rate.
	PollInterval time.Duration
	// IdleInterval is how long the poll loop sleeps while the detector or
	// video source is not ready.
	IdleInterval time.Duration

	Keypoint KeypointLookup
	Mirror   bool

	// ShowOverlay is the initial state of the fingertip marker.
	ShowOverlay bool

	// Seed seeds ripple and phrase randomness. Zero picks a random seed.
	Seed uint64
}

// Default phrase pools: river lines, questions, and rare asides.
var (
	defaultRiverPhrases = []string{
		"The river remembers.",
		"The current always returns.",
		"Flow bends but never breaks.",
		"Where sky touches water, stories begin.",
		"A name once spoken, lost downstream.",
		"Every stone was once a mountain.",
		"The water keeps what the land forgets.",
	}
	defaultQuestionPhrases = []string{
		"What have you left behind?",
		"Who taught the river to wander?",
		"Where does the current carry you?",
		"What would you whisper to the sea?",
		"Which shore are you walking toward?",
	}
	defaultRarePhrases = []string{
		"Ask the dolphins, they know.",
		"The fish are listening.",
		"Somewhere upstream, you are still a child.",
	}
)

// DefaultConfig returns the installation defaults.
func DefaultConfig() Config {
	return Config{
		Gesture: GestureConfig{
			Cooldown:      1800 * time.Millisecond,
			MoveThreshold: 40,
		},
		Ripple: RippleConfig{
			StartRadius: 10,
			RadiusStep:  1.4,
			AlphaStep:   2,
			Freq:        Range{Min: 2, Max: 6},
			Amp:         Range{Min: 2, Max: 5},
			Speed:       Range{Min: 0.05, Max: 0.15},
		},
		Phrases: PhraseConfig{
			Pools: [3][]string{
				append([]string(nil), defaultRiverPhrases...),
				append([]string(nil), defaultQuestionPhrases...),
				append([]string(nil), defaultRarePhrases...),
			},
			Weights:  [2]float64{0.6, 0.3},
			Attempts: 8,
			History:  6,
		},
		River: RiverConfig{
			Step:           8,
			HalfWidth:      200,
			Amplitude:      60,
			NoiseAmplitude: 30,
		},
		PollInterval: 100 * time.Millisecond,
		IdleInterval: 250 * time.Millisecond,
		Keypoint: KeypointLookup{
			Name:          "index_finger_tip",
			FallbackIndex: 8,
		},
		Mirror:      true,
		ShowOverlay: true,
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Gesture.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("gesture cooldown %v is negative", c.Gesture.Cooldown))
	}
	if c.Gesture.MoveThreshold < 0 {
		errs = append(errs, fmt.Errorf("move threshold %v is negative", c.Gesture.MoveThreshold))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval %v must be positive", c.PollInterval))
	}
	if c.IdleInterval <= 0 {
		errs = append(errs, fmt.Errorf("idle interval %v must be positive", c.IdleInterval))
	}
	if c.Ripple.AlphaStep <= 0 {
		errs = append(errs, fmt.Errorf("ripple alpha step %d must be positive", c.Ripple.AlphaStep))
	}
	if c.Ripple.RadiusStep <= 0 {
		errs = append(errs, fmt.Errorf("ripple radius step %v must be positive", c.Ripple.RadiusStep))
	}
	w0, w1 := c.Phrases.Weights[0], c.Phrases.Weights[1]
	if w0 < 0 || w1 < 0 || w0 > 1 || w1 > 1 || w0+w1 > 1+1e-9 {
		errs = append(errs, fmt.Errorf("%w: got %v, %v", ErrInvalidWeights, w0, w1))
	}
	if c.Phrases.History <= 0 {
		errs = append(errs, fmt.Errorf("phrase history %d must be positive", c.Phrases.History))
	}
	if c.Phrases.Attempts <= 0 {
		errs = append(errs, fmt.Errorf("phrase attempts %d must be positive", c.Phrases.Attempts))
	}
	if c.River.Step <= 0 {
		errs = append(errs, fmt.Errorf("river step %v must be positive", c.River.Step))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("riverlight: invalid config: %w", errors.Join(errs...))
}

// LoadConfig reads INI overrides from path on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return loadConfig(path)
}

// LoadConfigData is LoadConfig for in-memory INI data.
func LoadConfigData(data []byte) (Config, error) {
	return loadConfig(data)
}

// phrasePoolSections name the INI sections holding the three pools. Each
// line is a repeated "phrase" key.
var phrasePoolSections = [3]string{"phrases.river", "phrases.question", "phrases.rare"}

func loadConfig(source any) (Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true}, source)
	if err != nil {
		return Config{}, fmt.Errorf("riverlight: load config: %w", err)
	}

	c := DefaultConfig()
	c.Seed = f.Section("").Key("seed").MustUint64(c.Seed)

	g := f.Section("gesture")
	c.Gesture.Cooldown = g.Key("cooldown").MustDuration(c.Gesture.Cooldown)
	c.Gesture.MoveThreshold = g.Key("move_threshold").MustFloat64(c.Gesture.MoveThreshold)

	p := f.Section("poll")
	c.PollInterval = p.Key("interval").MustDuration(c.PollInterval)
	c.IdleInterval = p.Key("idle").MustDuration(c.IdleInterval)

	r := f.Section("ripple")
	c.Ripple.StartRadius = r.Key("start_radius").MustFloat64(c.Ripple.StartRadius)
	c.Ripple.RadiusStep = r.Key("radius_step").MustFloat64(c.Ripple.RadiusStep)
	c.Ripple.AlphaStep = r.Key("alpha_step").MustInt(c.Ripple.AlphaStep)

	ph := f.Section("phrases")
	c.Phrases.Weights[0] = ph.Key("weight_river").MustFloat64(c.Phrases.Weights[0])
	c.Phrases.Weights[1] = ph.Key("weight_question").MustFloat64(c.Phrases.Weights[1])
	c.Phrases.Attempts = ph.Key("attempts").MustInt(c.Phrases.Attempts)
	c.Phrases.History = ph.Key("history").MustInt(c.Phrases.History)
	for i, name := range phrasePoolSections {
		sec, err := f.GetSection(name)
		if err != nil || !sec.HasKey("phrase") {
			continue
		}
		c.Phrases.Pools[i] = sec.Key("phrase").ValueWithShadows()
	}

	rv := f.Section("river")
	c.River.Step = rv.Key("step").MustFloat64(c.River.Step)
	c.River.HalfWidth = rv.Key("half_width").MustFloat64(c.River.HalfWidth)
	c.River.Amplitude = rv.Key("amplitude").MustFloat64(c.River.Amplitude)
	c.River.NoiseAmplitude = rv.Key("noise_amplitude").MustFloat64(c.River.NoiseAmplitude)
	c.River.Seed = rv.Key("seed").MustInt64(c.River.Seed)

	d := f.Section("detector")
	c.Keypoint.Name = d.Key("keypoint").MustString(c.Keypoint.Name)
	c.Keypoint.FallbackIndex = d.Key("fallback_index").MustInt(c.Keypoint.FallbackIndex)
	c.Mirror = d.Key("mirror").MustBool(c.Mirror)

	c.ShowOverlay = f.Section("display").Key("overlay").MustBool(c.ShowOverlay)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
