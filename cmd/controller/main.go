// Command controller is the IIDX-style controller firmware: core 0 scans
// buttons and the turntable and reports a USB HID gamepad, core 1 drives
// the long rainbow strip and the three per-button LEDs.
package main

func main() {
	run()
}
