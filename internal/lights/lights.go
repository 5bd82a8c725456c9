// Package lights maps abstract effect requests onto the two protocol
// encoders, handling target selection, default colors and controllers
// that turn out to be absent.
package lights

import (
	"fmt"
	"log/slog"

	"github.com/abhinavkochar9/alienware-lights/internal/elc"
	"github.com/abhinavkochar9/alienware-lights/internal/hid"
	"github.com/abhinavkochar9/alienware-lights/internal/keyboard"
	"github.com/abhinavkochar9/alienware-lights/internal/rgb"
)

// Effect is an abstract lighting effect kind.
type Effect int

const (
	Static Effect = iota
	Breathe
	Morph
	Spectrum
	Wave
	Pulse
	Off
)

// Targets selects which zone groups an effect applies to.
type Targets struct {
	Keyboard bool
	Ring     bool
	Logos    bool
}

// All selects every zone group; used when no target flag is given.
var All = Targets{Keyboard: true, Ring: true, Logos: true}

// Request is one validated effect invocation.
type Request struct {
	Effect  Effect
	Colors  []rgb.Color
	Targets Targets
}

// KeyboardController is the keyboard encoder surface the orchestrator
// drives; satisfied by *keyboard.Keyboard.
type KeyboardController interface {
	Open() bool
	Close()
	Static(rgb.Color) error
	Breathe([]rgb.Color) error
	Morph([]rgb.Color) error
	Spectrum() error
	Wave() error
	Pulse(rgb.Color) error
	Off() error
}

// TronController is the AW-ELC encoder surface; satisfied by
// *elc.Controller.
type TronController interface {
	Open() bool
	Close()
	Static(c rgb.Color, ring, logos bool) error
	Breathe(colors []rgb.Color, ring, logos bool) error
	Morph(colors []rgb.Color, ring, logos bool) error
	Spectrum(ring, logos bool) error
	Pulse(c rgb.Color, ring, logos bool) error
	Off(ring, logos bool) error
}

// Orchestrator dispatches one effect request to whichever controllers
// are present.
type Orchestrator struct {
	Keyboard KeyboardController
	Tron     TronController
}

func New() *Orchestrator {
	mgr := hid.NewManager()
	return &Orchestrator{
		Keyboard: keyboard.New(mgr),
		Tron:     elc.New(mgr),
	}
}

// Apply runs one effect request end to end and returns the status line.
// A controller that cannot be located or opened is skipped for the rest
// of the run; protocol failures are warnings, never process failures.
// Both controllers are closed on the way out regardless of what failed,
// and the keyboard close includes its driver rebind.
func (o *Orchestrator) Apply(req Request) string {
	colors := req.Colors
	if len(colors) == 0 {
		colors = defaultColors(req.Effect)
	}

	kbd := req.Targets.Keyboard
	ring := req.Targets.Ring
	logos := req.Targets.Logos

	if kbd && !o.Keyboard.Open() {
		kbd = false
	}
	if (ring || logos) && !o.Tron.Open() {
		ring, logos = false, false
	}

	defer func() {
		if kbd {
			o.Keyboard.Close()
		}
		o.Tron.Close()
	}()

	run := func(name string, f func() error) {
		if err := f(); err != nil {
			slog.Warn("effect failed", slog.String("controller", name), slog.Any("error", err))
		}
	}

	switch req.Effect {
	case Static:
		c := colors[0]
		if kbd {
			run("keyboard", func() error { return o.Keyboard.Static(c) })
		}
		if ring || logos {
			run("tron", func() error { return o.Tron.Static(c, ring, logos) })
		}
		return "Static " + c.String()

	case Breathe:
		if kbd {
			run("keyboard", func() error { return o.Keyboard.Breathe(colors) })
		}
		if ring || logos {
			run("tron", func() error { return o.Tron.Breathe(colors, ring, logos) })
		}
		return fmt.Sprintf("Breathing with %d colors", len(colors))

	case Morph:
		if kbd {
			run("keyboard", func() error { return o.Keyboard.Morph(colors) })
		}
		if ring || logos {
			run("tron", func() error { return o.Tron.Morph(colors, ring, logos) })
		}
		return fmt.Sprintf("Morphing with %d colors", len(colors))

	case Spectrum:
		if kbd {
			run("keyboard", o.Keyboard.Spectrum)
		}
		if ring || logos {
			run("tron", func() error { return o.Tron.Spectrum(ring, logos) })
		}
		return "Spectrum cycle"

	case Wave:
		// The AW-ELC has no wave animation; it gets the spectrum morph.
		if kbd {
			run("keyboard", o.Keyboard.Wave)
		}
		if ring || logos {
			run("tron", func() error { return o.Tron.Spectrum(ring, logos) })
		}
		return "Rainbow wave"

	case Pulse:
		c := colors[0]
		if kbd {
			run("keyboard", func() error { return o.Keyboard.Pulse(c) })
		}
		if ring || logos {
			run("tron", func() error { return o.Tron.Pulse(c, ring, logos) })
		}
		return "Pulsing " + c.String()

	case Off:
		if kbd {
			run("keyboard", o.Keyboard.Off)
		}
		if ring || logos {
			run("tron", func() error { return o.Tron.Off(ring, logos) })
		}
		return "Lights off"
	}

	return ""
}

// defaultColors supplies the documented per-effect defaults when the
// caller gives none.
func defaultColors(e Effect) []rgb.Color {
	switch e {
	case Static, Pulse:
		return []rgb.Color{rgb.Magenta}
	case Off:
		return []rgb.Color{{}}
	default:
		return rgb.Rainbow()
	}
}
