package hid

import (
	"github.com/karalabe/usb"
)

// OnBus reports whether a device with the given identity is visible on
// the raw USB bus. When discovery finds no hidraw node this separates
// "not plugged in" from "present but no usable device node".
func OnBus(id Identity) bool {
	infos, err := usb.Enumerate(id.VendorID, id.ProductID)
	return err == nil && len(infos) > 0
}
