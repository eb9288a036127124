// Package riverlight is the engine behind a webcam-driven river installation:
// a visitor dips a fingertip into an animated river and the water answers
// with a fading ring and a line of text.
//
// The package holds everything that makes decisions. The drawing layer lives
// in riverlight/render and concrete hand detectors in riverlight/detect.
//
// # Quick start
//
//	cfg := riverlight.DefaultConfig()
//	session, err := riverlight.NewSession(cfg, riverlight.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	if err := session.Start(ctx, detector, camera); err != nil {
//		return err
//	}
//	defer session.Stop()
//
//	// once per display frame
//	session.Frame(width, height)
//	snap := session.Snapshot()
//
// # Data flow
//
// A [PollLoop] asks the [Detector] for hands every [Config.PollInterval],
// picks the index fingertip with a [KeypointLookup], maps it to canvas space
// with a [CanvasMapping] and hands it to the [Session]. The session tests it
// against the current [RiverBoundary], runs it through the [Debouncer], and
// on a trigger asks the [PhraseSelector] for a line and spawns a [Ripple] in
// the [RippleStore]. Every display frame [Session.Frame] rebuilds the
// boundary from the [RiverShape] and ages the ripples.
//
// # Triggering
//
// A fingertip in the river triggers when it has just entered the water or
// has moved at least [GestureConfig.MoveThreshold] since the last trigger,
// and more than [GestureConfig.Cooldown] has passed. A resting finger stays
// quiet; a slow sweep leaves a trail of ripples at the cooldown pace.
//
// # Configuration
//
// [DefaultConfig] carries the installation defaults. [LoadConfig] applies
// overrides from an INI file:
//
//	seed = 7
//
//	[gesture]
//	cooldown = 1800ms
//	move_threshold = 40
//
//	[phrases.rare]
//	phrase = Ask the dolphins, they know.
//	phrase = The fish are listening.
package riverlight
