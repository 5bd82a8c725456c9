// Package elc drives the AW-ELC "tron" controller (APIv4): the ring and
// logo zone groups, programmed over 33-byte output reports with report
// ID 0x03.
//
// Ring effects are live user animations. Logo effects persist per
// firmware power state, so programming them means saving the animation
// once for each of the six states.
package elc

import (
	"log/slog"
	"time"

	"github.com/abhinavkochar9/alienware-lights/internal/hid"
	"github.com/abhinavkochar9/alienware-lights/internal/rgb"
	"github.com/abhinavkochar9/alienware-lights/internal/sysfs"
)

// Identity of the AW-ELC controller.
var Identity = hid.Identity{VendorID: 0x187C, ProductID: 0x0550}

const (
	reportID = 0x03
	frameLen = 33

	// sendDelay is mandatory after every report: the firmware processes
	// commands serially and has no flow control, so sending faster drops
	// or corrupts commands.
	sendDelay = 20 * time.Millisecond

	// ringCommitSettle lets a pending ring animation commit before logo
	// power-state programming begins.
	ringCommitSettle = 50 * time.Millisecond
)

// The fixed addressable zone groups.
var (
	RingZones = []byte{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	LogoZones = []byte{0, 1}
)

// PowerStates are the firmware power modes a logo animation must be
// saved under.
var PowerStates = []byte{0x5B, 0x5C, 0x5D, 0x5E, 0x5F, 0x60}

// Action byte tags.
const (
	colorEffect = 0x00
	pulseEffect = 0x01
	morphEffect = 0x02

	colorMode = 0xD0
	morphMode = 0xCF
	pulseMode = 0xDC

	morphColorCap = 3 // firmware accepts at most 3 morph blocks
)

// Controller is the protocol encoder for the AW-ELC controller.
type Controller struct {
	session *hid.Session
}

func New(mgr hid.Manager) *Controller {
	return &Controller{
		session: &hid.Session{
			Manager:  mgr,
			Identity: Identity,
			ReportID: reportID,
			FrameLen: frameLen,
			Delay:    sendDelay,
		},
	}
}

// Open locates the controller and acquires its output-report session.
// Absence degrades the run rather than failing it.
func (t *Controller) Open() bool {
	if _, ok := sysfs.Locate(Identity.VendorHex(), Identity.ProductHex()); !ok {
		if hid.OnBus(Identity) {
			slog.Warn("AW-ELC present on USB bus but has no hidraw node; check driver and permissions")
		} else {
			slog.Warn("AW-ELC not found")
		}
		return false
	}
	return t.session.Open()
}

// Close releases the session. Unlike the keyboard there is no driver to
// hand back; output reports leave the kernel binding alone.
func (t *Controller) Close() {
	if err := t.session.Close(); err != nil {
		slog.Warn("AW-ELC close failed", slog.Any("error", err))
	}
}

// Static sets the targeted groups to one color.
func (t *Controller) Static(c rgb.Color, ring, logos bool) error {
	return t.apply(staticAction(c), ring, logos)
}

// Breathe fades through up to three of the given colors.
func (t *Controller) Breathe(colors []rgb.Color, ring, logos bool) error {
	return t.apply(morphActions(colors), ring, logos)
}

// Morph is the same firmware animation as Breathe; they differ only in
// which colors callers supply.
func (t *Controller) Morph(colors []rgb.Color, ring, logos bool) error {
	return t.Breathe(colors, ring, logos)
}

// Spectrum morphs through the fixed rainbow triple.
func (t *Controller) Spectrum(ring, logos bool) error {
	return t.Breathe(rgb.Rainbow(), ring, logos)
}

// Pulse blinks a single color.
func (t *Controller) Pulse(c rgb.Color, ring, logos bool) error {
	return t.apply(pulseAction(c), ring, logos)
}

// Off is static black.
func (t *Controller) Off(ring, logos bool) error {
	return t.Static(rgb.Color{}, ring, logos)
}

func (t *Controller) apply(action []byte, ring, logos bool) error {
	if ring {
		if err := t.setRing(action); err != nil {
			return err
		}
	}
	if logos {
		return t.setLogos(action)
	}
	return nil
}

// setRing programs a live user animation (0x21) on the ring zones.
func (t *Controller) setRing(action []byte) error {
	steps := [][]byte{
		{0x21, 0x00, 0x04, 0x00, 0xFF}, // clear existing user animation
		{0x21, 0x00, 0x01, 0x00, 0xFF}, // start a new one
		selectZones(RingZones),
		actionStep(action),
		{0x21, 0x00, 0x03, 0x00, 0xFF}, // play
	}
	for _, step := range steps {
		if err := t.session.Send(step); err != nil {
			return err
		}
	}
	return nil
}

// setLogos programs a power animation (0x22) for every power state. The
// transport is write-only with no acknowledgments, so all six states are
// always walked.
func (t *Controller) setLogos(action []byte) error {
	// Commit any pending ring animation first.
	if err := t.session.Send([]byte{0x21, 0x00, 0x03, 0x00, 0xFF}); err != nil {
		return err
	}
	t.session.Settle(ringCommitSettle)

	for _, state := range PowerStates {
		steps := [][]byte{
			{0x22, 0x00, 0x04, 0x00, state}, // remove existing
			{0x22, 0x00, 0x01, 0x00, state}, // start new
			selectZones(LogoZones),
			actionStep(action),
			{0x22, 0x00, 0x02, 0x00, state}, // save
		}
		for _, step := range steps {
			if err := t.session.Send(step); err != nil {
				return err
			}
		}
	}
	return t.session.Send([]byte{0x21, 0x00, 0x05, 0x00, 0xFF}) // play all
}

func selectZones(zones []byte) []byte {
	data := []byte{0x23, 0x01, 0x00, byte(len(zones))}
	return append(data, zones...)
}

func actionStep(action []byte) []byte {
	return append([]byte{0x24}, action...)
}

func staticAction(c rgb.Color) []byte {
	return []byte{colorEffect, 0x07, colorMode, 0x00, 0xFA, c.R, c.G, c.B}
}

// morphActions builds one morph block per color, capped at three.
func morphActions(colors []rgb.Color) []byte {
	if len(colors) > morphColorCap {
		colors = colors[:morphColorCap]
	}
	var data []byte
	for _, c := range colors {
		data = append(data, morphEffect, 0x07, morphMode, 0x00, 0x64, c.R, c.G, c.B)
	}
	return data
}

func pulseAction(c rgb.Color) []byte {
	return []byte{pulseEffect, 0x07, pulseMode, 0x00, 0x64, c.R, c.G, c.B}
}
