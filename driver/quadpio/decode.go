// Package quadpio implements the quadrature encoder's hardware
// interface: a PIO program sampling at a fixed rate pushes each changed
// 2-bit (A,B) pin reading to the RX FIFO, and Decoder turns the
// resulting transition stream into the running edge count
// quadrature.State expects. RP2040 PIO has no indirect jump, so a
// 16-entry transition jump table cannot live in the state machine
// itself; it lives here instead, decoded from the raw samples in Go.
package quadpio

// transitionDelta maps (previous sample)<<2|(new sample), each a 2-bit
// (A,B) pin reading, to the edge delta it represents. Only the eight
// single-step gray-code transitions carry a nonzero delta; a repeated
// sample is zero, and a skipped gray-code step (two bits changing at
// once) is ambiguous and also treated as zero rather than guessed at.
var transitionDelta = [16]int32{
	0b00_00: 0, 0b00_01: -1, 0b00_10: 1, 0b00_11: 0,
	0b01_00: 1, 0b01_01: 0, 0b01_10: 0, 0b01_11: -1,
	0b10_00: -1, 0b10_01: 0, 0b10_10: 0, 0b10_11: 1,
	0b11_00: 0, 0b11_01: 1, 0b11_10: -1, 0b11_11: 0,
}

// Decoder accumulates a running edge count from a stream of raw 2-bit
// pin samples. The zero value starts at position 0.
type Decoder struct {
	last uint8
	pos  int32
}

// Feed applies one new sample, already masked to its low two bits, and
// returns the updated running position.
func (d *Decoder) Feed(sample uint8) int32 {
	sample &= 0b11
	d.pos += transitionDelta[uint8(d.last<<2)|sample]
	d.last = sample
	return d.pos
}

// Pos returns the current running position without consuming a sample.
func (d *Decoder) Pos() int32 {
	return d.pos
}
