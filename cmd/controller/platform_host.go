//go:build !tinygo

// The host build is a bench harness: it runs the same button, quadrature
// and HID reporter pipeline as the firmware, wired to Raspberry Pi GPIO
// pins through periph.io instead of PIO/USB hardware, and logs every
// report to stdout so the control logic can be exercised off the actual
// controller board.
package main

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/bcm283x"

	"iidxhid.dev/button"
	"iidxhid.dev/hid"
	"iidxhid.dev/mailbox"
	"iidxhid.dev/quadrature"
)

// benchButtonPins maps the eleven logical buttons to Raspberry Pi GPIO
// pins; the count and order must match button.CanonicalBits.
var benchButtonPins = [button.NumButtons]gpio.PinIn{
	bcm283x.GPIO5, bcm283x.GPIO6, bcm283x.GPIO13, bcm283x.GPIO16,
	bcm283x.GPIO19, bcm283x.GPIO20, bcm283x.GPIO21,
	bcm283x.GPIO12, bcm283x.GPIO18, bcm283x.GPIO23, bcm283x.GPIO24,
}

// gpioPin adapts a periph.io gpio.PinIn to button.Pin, with the same
// pull-up, low-is-pressed wiring as the controller board.
type gpioPin struct {
	pin gpio.PinIn
}

func (p gpioPin) Read() bool {
	return p.pin.Read() == gpio.Low
}

// syntheticQuadSource stands in for the PIO-backed quadrature source:
// the bench rig has no encoder, so it feeds a slow steady rotation
// through the same gearing math the firmware runs.
type syntheticQuadSource struct {
	raw int32
}

func (s *syntheticQuadSource) Latest() int32 {
	time.Sleep(5 * time.Millisecond)
	s.raw += 2
	return s.raw
}

// logWriter implements hid.Writer by printing every report instead of
// writing to a USB endpoint.
type logWriter struct{}

func (logWriter) WriteReport(report [3]byte) error {
	fmt.Printf("report: buttons=%08b menu=%04b tt=%d\n", report[0], report[1], report[2])
	return nil
}

func run() {
	if _, err := host.Init(); err != nil {
		log.Fatalf("controller: periph init: %v", err)
	}

	pins := make([]button.Pin, len(benchButtonPins))
	for i, p := range benchButtonPins {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			log.Fatalf("controller: configure %s: %v", p.Name(), err)
		}
		pins[i] = gpioPin{pin: p}
	}

	buttonMask := mailbox.New[uint16]()
	ttPos := mailbox.New[uint8]()

	scanner := button.NewScanner(buttonMask, pins, button.CanonicalBits[:], time.Now)
	go scanner.Run(time.Tick(button.PollPeriod))

	go quadrature.Run(&syntheticQuadSource{}, sinkAdapter{ttPos})

	reporter := &hid.Reporter{
		Buttons: buttonMask,
		TT:      ttPos,
		Writer:  logWriter{},
	}
	reporter.Run(time.Tick(time.Second))
}

type sinkAdapter struct {
	m *mailbox.Mailbox[uint8]
}

func (s sinkAdapter) Put(v uint8) { s.m.Put(v) }
