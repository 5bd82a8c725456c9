package hid

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Session frames payloads into fixed-size reports for one controller and
// owns the open device handle. The two controller classes differ only in
// report ID, frame length, report type and settle time, so both ride the
// same type.
type Session struct {
	Manager  Manager
	Identity Identity
	ReportID byte          // prepended to every frame
	FrameLen int           // total report length including the report ID
	Feature  bool          // set feature report instead of plain output report
	Delay    time.Duration // minimum settle time after every send

	Sleep func(time.Duration) // defaults to time.Sleep

	dev Device
}

// Open acquires the device handle. Absence is reported as false, not an
// error; the caller already knows from discovery how loudly to warn.
func (s *Session) Open() bool {
	dev, err := s.Manager.OpenVIDPID(s.Identity.VendorID, s.Identity.ProductID)
	if err != nil {
		slog.Warn("cannot open device",
			slog.String("identity", s.Identity.String()),
			slog.Any("error", err))
		return false
	}
	s.dev = dev
	return true
}

// Send left-pads the payload with the report ID, zero-pads to the frame
// length, writes the report and waits out the controller's settle time.
func (s *Session) Send(payload []byte) error {
	if s.dev == nil {
		return errors.New("session not open")
	}
	if len(payload) > s.FrameLen-1 {
		return fmt.Errorf("payload of %d bytes exceeds frame capacity %d", len(payload), s.FrameLen-1)
	}
	data := make([]byte, s.FrameLen-1)
	copy(data, payload)

	var err error
	if s.Feature {
		err = s.dev.WriteFeature(s.ReportID, data)
	} else {
		err = s.dev.WriteOutput(s.ReportID, data)
	}
	if err != nil {
		return err
	}
	if s.Delay > 0 {
		s.Settle(s.Delay)
	}
	return nil
}

// Settle waits out a protocol-mandated minimum interval before the next
// command. The firmware has no flow control; these intervals must not be
// shortened without hardware validation.
func (s *Session) Settle(d time.Duration) {
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Close releases the device handle. Closing an unopened session is a
// no-op.
func (s *Session) Close() error {
	if s.dev == nil {
		return nil
	}
	err := s.dev.Close()
	s.dev = nil
	return err
}
