package hid

// MockFrame is one report captured by a MockDevice.
type MockFrame struct {
	Feature  bool
	ReportID byte
	Data     []byte
}

// MockDevice records every report written to it.
type MockDevice struct {
	Frames   []MockFrame
	Closed   bool
	WriteErr error // returned by every write when set
}

func NewMockDevice() *MockDevice { return &MockDevice{} }

func (m *MockDevice) WriteFeature(reportID byte, data []byte) error {
	return m.record(true, reportID, data)
}

func (m *MockDevice) WriteOutput(reportID byte, data []byte) error {
	return m.record(false, reportID, data)
}

func (m *MockDevice) record(feature bool, reportID byte, data []byte) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.Frames = append(m.Frames, MockFrame{Feature: feature, ReportID: reportID, Data: buf})
	return nil
}

func (m *MockDevice) Close() error {
	m.Closed = true
	return nil
}

// MockManager hands out a fixed device, or fails when OpenErr is set.
type MockManager struct {
	Device  *MockDevice
	OpenErr error
}

func (m *MockManager) OpenVIDPID(vendorID, productID uint16) (Device, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return m.Device, nil
}
