// Command alienware-lights controls the RGB lighting zones of an
// Alienware x15 R1 over raw HID.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abhinavkochar9/alienware-lights/internal/lights"
	"github.com/abhinavkochar9/alienware-lights/internal/rgb"
)

const usage = `Alienware x15 R1 RGB light controller.

Usage:
  alienware-lights static RRGGBB           Set all lights to a solid color
  alienware-lights breathe RRGGBB [RRGGBB] Breathing effect with 1-3 colors
  alienware-lights morph RRGGBB RRGGBB ... Morph/cycle between 2-3 colors
  alienware-lights spectrum                Rainbow spectrum cycle
  alienware-lights wave                    Rainbow wave effect
  alienware-lights pulse RRGGBB            Pulsing single color
  alienware-lights off                     Turn all lights off

  Targets (optional, default: all):
    --keyboard   Only keyboard
    --tron       Only tron (ring + logos)
    --ring       Only ring
    --logos      Only logos

Examples:
  alienware-lights static FF1493
  alienware-lights breathe FF0000 00FF00 0000FF
  alienware-lights spectrum --keyboard
  alienware-lights off
`

var effects = map[string]lights.Effect{
	"static":   lights.Static,
	"breathe":  lights.Breathe,
	"morph":    lights.Morph,
	"spectrum": lights.Spectrum,
	"wave":     lights.Wave,
	"pulse":    lights.Pulse,
	"off":      lights.Off,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		fmt.Print(usage)
		return 0
	}

	req, err := parseRequest(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	fmt.Println(lights.New().Apply(req))
	return 0
}

// parseRequest turns CLI arguments into a validated effect request.
// Device and protocol concerns live behind the lights package; only
// malformed input is rejected here.
func parseRequest(args []string) (lights.Request, error) {
	var targets lights.Targets
	var tron bool
	var words []string

	for _, a := range args {
		switch a {
		case "--keyboard":
			targets.Keyboard = true
		case "--tron":
			tron = true
		case "--ring":
			targets.Ring = true
		case "--logos":
			targets.Logos = true
		default:
			if strings.HasPrefix(a, "--") {
				return lights.Request{}, fmt.Errorf("unknown flag: %s", a)
			}
			words = append(words, a)
		}
	}
	if tron {
		targets.Ring = true
		targets.Logos = true
	}
	if !targets.Keyboard && !targets.Ring && !targets.Logos {
		targets = lights.All
	}

	if len(words) == 0 {
		return lights.Request{}, errors.New("missing command")
	}
	effect, ok := effects[strings.ToLower(words[0])]
	if !ok {
		return lights.Request{}, fmt.Errorf("unknown command: %s", words[0])
	}

	var colors []rgb.Color
	for _, tok := range words[1:] {
		c, err := rgb.Parse(tok)
		if err != nil {
			return lights.Request{}, err
		}
		colors = append(colors, c)
	}

	// Static and pulse take a single color; extras are ignored.
	if (effect == lights.Static || effect == lights.Pulse) && len(colors) > 1 {
		colors = colors[:1]
	}

	return lights.Request{Effect: effect, Colors: colors, Targets: targets}, nil
}
