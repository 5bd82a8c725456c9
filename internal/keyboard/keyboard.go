// Package keyboard drives the Darfon keyboard controller (APIv5): an
// individually addressable key matrix programmed over 64-byte feature
// reports with report ID 0xCC.
//
// Every effect runs the same firmware sequence: reset, disable the
// running global effect, program, commit. The settle times between steps
// are firmware turnaround minimums, not tunables.
package keyboard

import (
	"log/slog"
	"time"

	"github.com/abhinavkochar9/alienware-lights/internal/hid"
	"github.com/abhinavkochar9/alienware-lights/internal/rgb"
	"github.com/abhinavkochar9/alienware-lights/internal/sysfs"
)

// Identity of the keyboard controller.
var Identity = hid.Identity{VendorID: 0x0D62, ProductID: 0xBABC}

const (
	reportID = 0xCC
	frameLen = 64

	keyCount  = 0x88 // contiguous key zone indices 0x00-0x87
	chunkSize = 15   // keys per program report, protocol payload limit

	resetSettle  = 50 * time.Millisecond
	effectSettle = 50 * time.Millisecond
	chunkSettle  = 10 * time.Millisecond
)

// effect is a global-effect tag understood by the firmware.
type effect struct {
	kind  byte
	tempo byte
}

var (
	breatheEffect  = effect{kind: 0x02, tempo: 0x07}
	morphEffect    = effect{kind: 0x02, tempo: 0x05}
	spectrumEffect = effect{kind: 0x02, tempo: 0x05}
	waveEffect     = effect{kind: 0x03, tempo: 0x05}
	pulseEffect    = effect{kind: 0x08, tempo: 0x07}
)

// Keyboard is the protocol encoder for the keyboard controller.
type Keyboard struct {
	session *hid.Session
	dev     sysfs.Device
	found   bool
}

func New(mgr hid.Manager) *Keyboard {
	return &Keyboard{
		session: &hid.Session{
			Manager:  mgr,
			Identity: Identity,
			ReportID: reportID,
			FrameLen: frameLen,
			Feature:  true,
		},
	}
}

// Open locates the controller and acquires its feature-report session.
// Absence degrades the run rather than failing it.
func (k *Keyboard) Open() bool {
	dev, ok := sysfs.Locate(Identity.VendorHex(), Identity.ProductHex())
	if !ok {
		if hid.OnBus(Identity) {
			slog.Warn("keyboard present on USB bus but has no hidraw node; check driver and permissions")
		} else {
			slog.Warn("keyboard not found")
		}
		return false
	}
	k.dev = dev
	k.found = true
	return k.session.Open()
}

// Close releases the session and always hands the device back to the
// kernel usbhid driver, even when no command was sent.
func (k *Keyboard) Close() {
	if err := k.session.Close(); err != nil {
		slog.Warn("keyboard close failed", slog.Any("error", err))
	}
	if !k.found {
		return
	}
	phys, ok := k.dev.Phys()
	if !ok {
		return // descriptor gone, nothing left to rebind
	}
	sysfs.Rebind(phys)
}

// Static sets every key zone to one color.
func (k *Keyboard) Static(c rgb.Color) error {
	if err := k.preamble(); err != nil {
		return err
	}
	if err := k.setAllKeys(c); err != nil {
		return err
	}
	return k.commit()
}

// Breathe fades through the given colors.
func (k *Keyboard) Breathe(colors []rgb.Color) error {
	return k.animate(breatheEffect, colors)
}

// Morph cycles smoothly between the given colors.
func (k *Keyboard) Morph(colors []rgb.Color) error {
	return k.animate(morphEffect, colors)
}

// Spectrum cycles the full rainbow regardless of requested colors.
func (k *Keyboard) Spectrum() error {
	return k.animate(spectrumEffect, rgb.Rainbow())
}

// Wave runs a rainbow wave across the matrix.
func (k *Keyboard) Wave() error {
	return k.animate(waveEffect, rgb.Rainbow())
}

// Pulse blinks a single color.
func (k *Keyboard) Pulse(c rgb.Color) error {
	return k.animate(pulseEffect, []rgb.Color{c})
}

// Off is static black.
func (k *Keyboard) Off() error {
	return k.Static(rgb.Color{})
}

func (k *Keyboard) animate(e effect, colors []rgb.Color) error {
	if err := k.preamble(); err != nil {
		return err
	}
	if err := k.globalEffect(e, colors); err != nil {
		return err
	}
	return k.commit()
}

// preamble clears firmware-side animation state and stops any running
// global effect before reprogramming.
func (k *Keyboard) preamble() error {
	if err := k.session.Send([]byte{0x94}); err != nil {
		return err
	}
	k.session.Settle(resetSettle)
	if err := k.session.Send([]byte{0x80, 0x01, 0xFE, 0x00, 0x00, 0x01, 0x01, 0x01}); err != nil {
		return err
	}
	k.session.Settle(effectSettle)
	return nil
}

// setAllKeys programs each key zone in chunks of at most chunkSize, then
// marks the key programming done. Wire key indices are 1-based.
func (k *Keyboard) setAllKeys(c rgb.Color) error {
	for start := 0; start < keyCount; start += chunkSize {
		end := start + chunkSize
		if end > keyCount {
			end = keyCount
		}
		data := []byte{0x8C, 0x02, 0x00}
		for key := start; key < end; key++ {
			data = append(data, byte(key+1), c.R, c.G, c.B)
		}
		if err := k.session.Send(data); err != nil {
			return err
		}
		k.session.Settle(chunkSettle)
	}
	if err := k.session.Send([]byte{0x8C, 0x13}); err != nil {
		return err
	}
	k.session.Settle(chunkSettle)
	return nil
}

// globalEffect programs a firmware-animated effect. The color count is
// passed through uncapped; only the AW-ELC side caps at 3.
func (k *Keyboard) globalEffect(e effect, colors []rgb.Color) error {
	data := []byte{0x80, e.kind, e.tempo, 0x00, 0x00, 0x01, 0x01, 0x01, byte(len(colors) - 1)}
	for _, c := range colors {
		data = append(data, c.R, c.G, c.B)
	}
	if err := k.session.Send(data); err != nil {
		return err
	}
	k.session.Settle(effectSettle)
	return nil
}

// commit makes the programmed state live.
func (k *Keyboard) commit() error {
	return k.session.Send([]byte{0x8B, 0x01, 0xFF})
}
