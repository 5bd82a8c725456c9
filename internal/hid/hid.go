// Package hid opens the lighting controllers and frames protocol
// payloads into the fixed-size HID reports their firmware expects.
package hid

import "fmt"

// Device represents an opened HID device capable of report I/O.
type Device interface {
	WriteFeature(reportID byte, data []byte) error // set feature report
	WriteOutput(reportID byte, data []byte) error  // send output report
	Close() error
}

// Manager opens HID devices.
type Manager interface {
	OpenVIDPID(vendorID, productID uint16) (Device, error)
}

// Identity names one controller class for discovery matching.
type Identity struct {
	VendorID  uint16
	ProductID uint16
}

// VendorHex returns the vendor ID as it appears in sysfs uevent text.
func (id Identity) VendorHex() string { return fmt.Sprintf("%04X", id.VendorID) }

// ProductHex returns the product ID as it appears in sysfs uevent text.
func (id Identity) ProductHex() string { return fmt.Sprintf("%04X", id.ProductID) }

func (id Identity) String() string {
	return fmt.Sprintf("%s:%s", id.VendorHex(), id.ProductHex())
}
