//go:build tinygo && rp2350

package main

import (
	"device/rp"
	"machine"
	"machine/usb"
	"machine/usb/hid/joystick"
	"time"

	"iidxhid.dev/button"
	"iidxhid.dev/driver/core1"
	"iidxhid.dev/driver/quadpio"
	"iidxhid.dev/driver/wsparallel"
	"iidxhid.dev/hid"
	"iidxhid.dev/led"
	"iidxhid.dev/mailbox"
	"iidxhid.dev/quadrature"
	"tinygo.org/x/drivers/ws2812"
)

// Pin assignments for this hardware revision.
var buttonPins = [button.NumButtons]machine.Pin{
	0, 1, 2, 3, 4, 5, 6, // gameplay keys 1..7
	7, 8, 9, 10, // menu/effector keys
}

const (
	quadBasePin  = machine.Pin(11) // quadBasePin, quadBasePin+1: A, B
	longStripPin = machine.Pin(13)
	buttonLEDPin = machine.Pin(14) // base of 3 parallel button LED chains
)

// invertedPin reads a GPIO input pin and reports true when it reads
// LOW: every button on this board is wired to ground through its
// switch, with an internal pull-up holding the line high when open.
type invertedPin struct {
	pin machine.Pin
}

func (p invertedPin) Read() bool {
	return !p.pin.Get()
}

func configureButtonPins() []button.Pin {
	pins := make([]button.Pin, len(buttonPins))
	for i, p := range buttonPins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		pins[i] = invertedPin{pin: p}
	}
	return pins
}

// usbReport adapts the HID joystick endpoint to hid.Writer. Report
// submission is fire-and-forget on this stack; delivery failures
// surface as the host simply not polling.
type usbReport struct {
	dev *joystick.Joystick
}

func (u usbReport) WriteReport(report [3]byte) error {
	u.dev.SendReport(0, report[:])
	return nil
}

func run() {
	usb.VendorID = hid.VendorID
	usb.ProductID = hid.ProductID
	usb.Manufacturer = hid.Manufacturer
	usb.Product = hid.Product
	usb.Serial = hid.SerialNumber

	buttonMask := mailbox.New[uint16]()
	ttPos := mailbox.New[uint8]()

	pins := configureButtonPins()
	scanner := button.NewScanner(buttonMask, pins, button.CanonicalBits[:], time.Now)
	go scanner.Run(time.Tick(button.PollPeriod))

	quad := &quadpio.Device{Pio: rp.PIO0, BasePin: quadBasePin}
	quad.Configure()
	go quadrature.Run(quad, sinkAdapter{ttPos})

	// Output reports are accepted and ignored.
	usbDev := joystick.UseSettings(joystick.Definitions{
		ButtonCnt: 12,
		AxisDefs: []joystick.Constraint{
			{MinIn: 0, MaxIn: 255, MinOut: 0, MaxOut: 255},
		},
	}, func([]byte) {}, nil, hid.ReportDescriptor)

	reporter := &hid.Reporter{
		Buttons: buttonMask,
		TT:      ttPos,
		Writer:  usbReport{dev: usbDev},
	}

	core1.Launch(runCore1)

	reporter.Run(time.Tick(hid.PollIntervalMS * time.Millisecond))
}

// sinkAdapter adapts a *mailbox.Mailbox[uint8] to quadrature.Sink.
type sinkAdapter struct {
	m *mailbox.Mailbox[uint8]
}

func (s sinkAdapter) Put(v uint8) { s.m.Put(v) }

// runCore1 drives the LED animator forever. It runs entirely on core 1
// and shares no mutable state with core 0.
func runCore1() {
	longStrip := ws2812.New(longStripPin)

	parallel := &wsparallel.Device{Pio: rp.PIO1, BasePin: buttonLEDPin, NumChains: 3}
	if err := parallel.Configure(); err != nil {
		panic(err)
	}

	anim := led.NewAnimator(wsStripAdapter{longStrip}, parallel)
	anim.Run(time.Tick(led.TickPeriod), nil)
}

// wsStripAdapter adapts tinygo.org/x/drivers/ws2812's single-chain
// driver to led.Strip.
type wsStripAdapter struct {
	dev ws2812.Device
}

func (w wsStripAdapter) WriteColors(colors []led.RGB8) error {
	buf := make([]byte, 0, len(colors)*3)
	for _, c := range colors {
		buf = append(buf, c.G, c.R, c.B)
	}
	return w.dev.WriteRaw(buf)
}
