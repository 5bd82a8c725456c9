package keyboard

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/abhinavkochar9/alienware-lights/internal/hid"
	"github.com/abhinavkochar9/alienware-lights/internal/rgb"
)

func newTestKeyboard(t *testing.T) (*Keyboard, *hid.MockDevice) {
	t.Helper()
	dev := hid.NewMockDevice()
	k := New(&hid.MockManager{Device: dev})
	k.session.Sleep = func(time.Duration) {}
	if !k.session.Open() {
		t.Fatal("session open failed")
	}
	return k, dev
}

// assertPayload checks that a captured frame carries the payload followed
// by zero padding.
func assertPayload(t *testing.T, f hid.MockFrame, want []byte) {
	t.Helper()
	if !f.Feature {
		t.Error("keyboard frame sent as output report, want feature report")
	}
	if f.ReportID != 0xCC {
		t.Errorf("report ID = 0x%02X, want 0xCC", f.ReportID)
	}
	if len(f.Data) != 63 {
		t.Fatalf("frame data = %d bytes, want 63", len(f.Data))
	}
	if !bytes.Equal(f.Data[:len(want)], want) {
		t.Errorf("payload = % X, want % X", f.Data[:len(want)], want)
	}
	for i := len(want); i < len(f.Data); i++ {
		if f.Data[i] != 0 {
			t.Errorf("data[%d] = 0x%02X, want zero padding", i, f.Data[i])
		}
	}
}

var disablePayload = []byte{0x80, 0x01, 0xFE, 0x00, 0x00, 0x01, 0x01, 0x01}

func TestEveryEffectBeginsWithResetAndDisable(t *testing.T) {
	c := rgb.Color{R: 0xFF, G: 0x14, B: 0x93}
	tests := []struct {
		name string
		run  func(*Keyboard) error
	}{
		{name: "static", run: func(k *Keyboard) error { return k.Static(c) }},
		{name: "breathe", run: func(k *Keyboard) error { return k.Breathe([]rgb.Color{c}) }},
		{name: "morph", run: func(k *Keyboard) error { return k.Morph(rgb.Rainbow()) }},
		{name: "spectrum", run: func(k *Keyboard) error { return k.Spectrum() }},
		{name: "wave", run: func(k *Keyboard) error { return k.Wave() }},
		{name: "pulse", run: func(k *Keyboard) error { return k.Pulse(c) }},
		{name: "off", run: func(k *Keyboard) error { return k.Off() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, dev := newTestKeyboard(t)
			if err := tt.run(k); err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
			if len(dev.Frames) < 3 {
				t.Fatalf("got %d frames, want at least reset, disable and commit", len(dev.Frames))
			}
			assertPayload(t, dev.Frames[0], []byte{0x94})
			assertPayload(t, dev.Frames[1], disablePayload)
			assertPayload(t, dev.Frames[len(dev.Frames)-1], []byte{0x8B, 0x01, 0xFF})
		})
	}
}

func TestStaticChunking(t *testing.T) {
	c := rgb.Color{R: 0xFF, G: 0x14, B: 0x93}
	k, dev := newTestKeyboard(t)
	if err := k.Static(c); err != nil {
		t.Fatalf("Static: %v", err)
	}

	// reset + disable + 10 chunks + commit-keys + commit
	if len(dev.Frames) != 14 {
		t.Fatalf("got %d frames, want 14", len(dev.Frames))
	}

	chunks := dev.Frames[2:12]
	key := 0
	for i, f := range chunks {
		n := chunkSize
		if key+n > keyCount {
			n = keyCount - key
		}
		want := []byte{0x8C, 0x02, 0x00}
		for j := 0; j < n; j++ {
			key++
			want = append(want, byte(key), c.R, c.G, c.B) // wire indices are 1-based
		}
		if len(want) != 3+4*n {
			t.Fatalf("chunk %d: bad expectation %d", i, len(want))
		}
		assertPayload(t, f, want)
	}
	if key != keyCount {
		t.Errorf("programmed %d keys, want %d", key, keyCount)
	}

	assertPayload(t, dev.Frames[12], []byte{0x8C, 0x13})
	assertPayload(t, dev.Frames[13], []byte{0x8B, 0x01, 0xFF})
}

func TestGlobalEffectEncoding(t *testing.T) {
	red := rgb.Color{R: 0xFF}
	blue := rgb.Color{B: 0xFF}
	rainbow := []byte{0xFF, 0x00, 0x00, 0x00, 0xFF, 0x00, 0x00, 0x00, 0xFF}

	tests := []struct {
		name string
		run  func(*Keyboard) error
		want []byte
	}{
		{
			name: "breathe two colors",
			run:  func(k *Keyboard) error { return k.Breathe([]rgb.Color{red, blue}) },
			want: []byte{0x80, 0x02, 0x07, 0x00, 0x00, 0x01, 0x01, 0x01, 0x01,
				0xFF, 0x00, 0x00, 0x00, 0x00, 0xFF},
		},
		{
			name: "morph",
			run:  func(k *Keyboard) error { return k.Morph(rgb.Rainbow()) },
			want: append([]byte{0x80, 0x02, 0x05, 0x00, 0x00, 0x01, 0x01, 0x01, 0x02}, rainbow...),
		},
		{
			name: "spectrum ignores input and uses the rainbow",
			run:  func(k *Keyboard) error { return k.Spectrum() },
			want: append([]byte{0x80, 0x02, 0x05, 0x00, 0x00, 0x01, 0x01, 0x01, 0x02}, rainbow...),
		},
		{
			name: "wave",
			run:  func(k *Keyboard) error { return k.Wave() },
			want: append([]byte{0x80, 0x03, 0x05, 0x00, 0x00, 0x01, 0x01, 0x01, 0x02}, rainbow...),
		},
		{
			name: "pulse single color",
			run:  func(k *Keyboard) error { return k.Pulse(red) },
			want: []byte{0x80, 0x08, 0x07, 0x00, 0x00, 0x01, 0x01, 0x01, 0x00, 0xFF, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, dev := newTestKeyboard(t)
			if err := tt.run(k); err != nil {
				t.Fatal(err)
			}
			if len(dev.Frames) != 4 {
				t.Fatalf("got %d frames, want reset, disable, effect, commit", len(dev.Frames))
			}
			assertPayload(t, dev.Frames[2], tt.want)
		})
	}
}

func TestGlobalEffectColorCountUncapped(t *testing.T) {
	// The AW-ELC caps morph colors at 3; the keyboard path passes all
	// colors through and the count byte must reflect that.
	colors := []rgb.Color{{R: 1}, {R: 2}, {R: 3}, {R: 4}}
	k, dev := newTestKeyboard(t)
	if err := k.Breathe(colors); err != nil {
		t.Fatal(err)
	}

	f := dev.Frames[2]
	if got := f.Data[8]; got != 3 {
		t.Errorf("color count byte = %d, want 3 (count-1 for 4 colors)", got)
	}
	want := []byte{1, 0, 0, 2, 0, 0, 3, 0, 0, 4, 0, 0}
	if !bytes.Equal(f.Data[9:9+len(want)], want) {
		t.Errorf("color bytes = % X, want % X", f.Data[9:9+len(want)], want)
	}
}

func TestOffEqualsStaticBlack(t *testing.T) {
	off, offDev := newTestKeyboard(t)
	if err := off.Off(); err != nil {
		t.Fatal(err)
	}
	black, blackDev := newTestKeyboard(t)
	if err := black.Static(rgb.Color{}); err != nil {
		t.Fatal(err)
	}

	if len(offDev.Frames) != len(blackDev.Frames) {
		t.Fatalf("off sent %d frames, static black sent %d", len(offDev.Frames), len(blackDev.Frames))
	}
	for i := range offDev.Frames {
		if !bytes.Equal(offDev.Frames[i].Data, blackDev.Frames[i].Data) {
			t.Errorf("frame %d differs between off and static black", i)
		}
	}
}

func TestStaticSettleIntervals(t *testing.T) {
	dev := hid.NewMockDevice()
	k := New(&hid.MockManager{Device: dev})
	var slept []time.Duration
	k.session.Sleep = func(d time.Duration) { slept = append(slept, d) }
	if !k.session.Open() {
		t.Fatal("session open failed")
	}

	if err := k.Static(rgb.Color{}); err != nil {
		t.Fatal(err)
	}

	want := []time.Duration{resetSettle, effectSettle}
	for i := 0; i < 11; i++ { // 10 chunks + commit-keys marker
		want = append(want, chunkSettle)
	}
	if len(slept) != len(want) {
		t.Fatalf("got %d settles, want %d", len(slept), len(want))
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("settle %d = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestWriteErrorAborts(t *testing.T) {
	k, dev := newTestKeyboard(t)
	dev.WriteErr = errors.New("write failed")
	if err := k.Static(rgb.Color{}); err == nil {
		t.Fatal("Static succeeded with failing device")
	}
	if len(dev.Frames) != 0 {
		t.Errorf("frames recorded despite write error: %d", len(dev.Frames))
	}
}
