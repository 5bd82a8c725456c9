// Package sysfs resolves hidraw device nodes for the lighting
// controllers and hands devices back to the kernel HID driver after
// direct control.
package sysfs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Overridable for tests.
var classDir = "/sys/class/hidraw"

// Device is a located hidraw node.
type Device struct {
	Node string // /dev/hidrawN
	Name string // hidrawN
}

// Locate scans the hidraw class tree for a device whose uevent text
// contains both identifier strings. Candidates are visited in
// lexicographic path order so repeated runs pick the same node. Absence
// is a normal result, not an error.
func Locate(vendorHex, productHex string) (Device, bool) {
	paths, err := filepath.Glob(filepath.Join(classDir, "hidraw*", "device", "uevent"))
	if err != nil {
		return Device{}, false
	}
	sort.Strings(paths)

	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		text := string(content)
		if strings.Contains(text, vendorHex) && strings.Contains(text, productHex) {
			// p is <classDir>/hidrawN/device/uevent
			name := filepath.Base(filepath.Dir(filepath.Dir(p)))
			return Device{Node: "/dev/" + name, Name: name}, true
		}
	}
	return Device{}, false
}

// Phys returns the physical bus segment for the device, parsed from the
// HID_PHYS field of its uevent. A missing uevent means the descriptor is
// gone and there is nothing left to rebind.
func (d Device) Phys() (string, bool) {
	content, err := os.ReadFile(filepath.Join(classDir, d.Name, "device", "uevent"))
	if err != nil {
		return "", false
	}
	return physFromUevent(string(content))
}

// physFromUevent extracts e.g. "usb-0000:00:14.0-5" from a line
// "HID_PHYS=usb-0000:00:14.0-5/input3".
func physFromUevent(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		v, ok := strings.CutPrefix(line, "HID_PHYS=")
		if !ok {
			continue
		}
		seg, _, _ := strings.Cut(strings.TrimSpace(v), "/")
		return seg, seg != ""
	}
	return "", false
}
