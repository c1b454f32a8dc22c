// Package hid implements the fixed 3-byte HID report and its assembly
// from a button bitmask and turntable position.
package hid

// ReportDescriptor is the USB HID report descriptor: a Gamepad physical
// collection nested in a Joystick application collection, carrying two
// button usage ranges (1..8 and 9..12) folded into two bytes plus one
// 8-bit X usage for the turntable. Button usage IDs are 1-based.
var ReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x04, // Usage (Joystick)
	0xA1, 0x01, // Collection (Application)

	0x09, 0x05, //   Usage (Game Pad)
	0xA1, 0x00, //   Collection (Physical)

	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (1)
	0x29, 0x08, //     Usage Maximum (8)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x75, 0x01, //     Report Size (1)
	0x95, 0x08, //     Report Count (8)
	0x81, 0x02, //     Input (Data,Var,Abs)

	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x09, //     Usage Minimum (9)
	0x29, 0x0C, //     Usage Maximum (12)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x75, 0x01, //     Report Size (1)
	0x95, 0x04, //     Report Count (4)
	0x81, 0x02, //     Input (Data,Var,Abs)

	0x75, 0x04, //     Report Size (4)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x03, //     Input (Const,Var,Abs) - padding to fill byte 2

	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x15, 0x00, //     Logical Minimum (0)
	0x26, 0xFF, 0x00, //     Logical Maximum (255)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x02, //     Input (Data,Var,Abs)

	0xC0, //   End Collection
	0xC0, // End Collection
}

// VendorID and ProductID identify the device to the host.
const (
	VendorID  = 0x1CCF
	ProductID = 0x8048
)

// Descriptor strings reported during enumeration.
const (
	Manufacturer = "Konami Amusement"
	Product      = "beatmania IIDX controller premium model"
	SerialNumber = "12345678"
)

// PollIntervalMS is the interrupt IN endpoint's poll interval.
const PollIntervalMS = 1

// MaxPacketSize bounds both endpoints.
const MaxPacketSize = 64
