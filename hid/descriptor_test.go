package hid

import (
	"bytes"
	"testing"
)

func TestReportDescriptorNestsGamepadInJoystickCollection(t *testing.T) {
	prefix := []byte{
		0x05, 0x01, // Usage Page (Generic Desktop)
		0x09, 0x04, // Usage (Joystick)
		0xA1, 0x01, // Collection (Application)
		0x09, 0x05, // Usage (Game Pad)
		0xA1, 0x00, // Collection (Physical)
	}
	if !bytes.HasPrefix(ReportDescriptor, prefix) {
		t.Fatalf("descriptor does not open with Joystick(Application)/Gamepad(Physical), got % X", ReportDescriptor[:len(prefix)])
	}
	if n := len(ReportDescriptor); !bytes.Equal(ReportDescriptor[n-2:], []byte{0xC0, 0xC0}) {
		t.Fatalf("descriptor does not close both collections, tail = % X", ReportDescriptor[n-2:])
	}
}

// walkItems decodes the short-item stream, calling fn with each item's
// prefix byte and data value.
func walkItems(t *testing.T, desc []byte, fn func(prefix byte, value uint32)) {
	t.Helper()
	for i := 0; i < len(desc); {
		prefix := desc[i]
		size := int(prefix & 0x03)
		if size == 3 {
			size = 4
		}
		i++
		if i+size > len(desc) {
			t.Fatalf("truncated item %#02x at offset %d", prefix, i-1)
		}
		var value uint32
		for j := size - 1; j >= 0; j-- {
			value = value<<8 | uint32(desc[i+j])
		}
		fn(prefix, value)
		i += size
	}
}

func TestReportDescriptorLayout(t *testing.T) {
	var (
		depth, maxDepth int
		reportSize      uint32
		reportCount     uint32
		inputBits       uint32
		usageMins       []uint32
		usageMaxs       []uint32
	)
	walkItems(t, ReportDescriptor, func(prefix byte, value uint32) {
		switch prefix & 0xFC {
		case 0xA0: // Collection
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case 0xC0: // End Collection
			depth--
		case 0x74: // Report Size
			reportSize = value
		case 0x94: // Report Count
			reportCount = value
		case 0x80: // Input
			inputBits += reportSize * reportCount
		case 0x18: // Usage Minimum
			usageMins = append(usageMins, value)
		case 0x28: // Usage Maximum
			usageMaxs = append(usageMaxs, value)
		}
	})
	if depth != 0 {
		t.Errorf("unbalanced collections, depth = %d at end", depth)
	}
	if maxDepth != 2 {
		t.Errorf("collection nesting depth = %d, want 2", maxDepth)
	}
	// 8 + 4 button bits, 4 padding bits, 8 axis bits: three report bytes.
	if inputBits != 24 {
		t.Errorf("input bits = %d, want 24", inputBits)
	}
	wantMins := []uint32{1, 9}
	wantMaxs := []uint32{8, 12}
	if len(usageMins) != 2 || usageMins[0] != wantMins[0] || usageMins[1] != wantMins[1] {
		t.Errorf("button usage minima = %v, want %v (1-based)", usageMins, wantMins)
	}
	if len(usageMaxs) != 2 || usageMaxs[0] != wantMaxs[0] || usageMaxs[1] != wantMaxs[1] {
		t.Errorf("button usage maxima = %v, want %v", usageMaxs, wantMaxs)
	}
}
