// Package button implements the debounced button scanner that produces the
// 16-bit gameplay/menu key bitmask consumed by the HID reporter.
package button

import (
	"time"

	"iidxhid.dev/mailbox"
)

const (
	// PollPeriod is the scan cadence.
	PollPeriod = 250 * time.Microsecond
	// DebounceWindow is the minimum time that must pass after a button's
	// last accepted transition (or after the Scanner was constructed)
	// before another transition of that button is accepted.
	DebounceWindow = 4 * time.Millisecond
)

// NumButtons is the number of physical buttons scanned: seven gameplay
// keys plus four menu/effector keys.
const NumButtons = 11

// CanonicalBits is the compile-time pin-to-bit mapping for this hardware
// revision: the seven gameplay keys occupy bits 0..6, the four menu keys
// occupy bits 8..11, and bit 7 is permanently reserved (never set). The
// slice index has no meaning beyond pairing with the Pin slice a Scanner
// is constructed from; only the bit values matter.
var CanonicalBits = [NumButtons]uint8{0, 1, 2, 3, 4, 5, 6, 8, 9, 10, 11}

// Pin is the electrical read port for one button, already normalized so
// that true means "candidate pressed" (the platform adapter is
// responsible for the LOW-is-pressed inversion of the underlying GPIO).
type Pin interface {
	Read() bool
}

type button struct {
	pin            Pin
	bit            uint8
	pressed        bool
	lastTransition time.Time
}

// Scanner polls a fixed set of buttons and publishes the debounced 16-bit
// mask to out on every tick, whether or not the mask changed: the HID
// reporter's wait loop depends on a steady stream of publishes.
type Scanner struct {
	buttons []button
	out     *mailbox.Mailbox[uint16]
	now     func() time.Time
}

// NewScanner builds a Scanner over pins, each assigned to the
// corresponding bit in bits. now supplies the monotonic clock driving
// debounce decisions; pass time.Now in production.
func NewScanner(out *mailbox.Mailbox[uint16], pins []Pin, bits []uint8, now func() time.Time) *Scanner {
	if len(pins) != len(bits) {
		panic("button: pins and bits must have the same length")
	}
	s := &Scanner{
		buttons: make([]button, len(pins)),
		out:     out,
		now:     now,
	}
	// Every button starts released, as if it had just transitioned, so a
	// glitch right after startup is debounced like any other.
	start := now()
	for i, p := range pins {
		s.buttons[i] = button{pin: p, bit: bits[i], lastTransition: start}
	}
	return s
}

// Run drives the scanner from tick, polling once per receive. It never
// returns; callers typically run it in its own goroutine fed by a ticker
// at PollPeriod.
func (s *Scanner) Run(tick <-chan time.Time) {
	for range tick {
		s.out.Put(s.poll())
	}
}

// poll reads every button once, commits any debounced transitions, and
// returns the resulting bitmask.
func (s *Scanner) poll() uint16 {
	now := s.now()
	var mask uint16
	for i := range s.buttons {
		b := &s.buttons[i]
		raw := b.pin.Read()
		if raw != b.pressed && now.Sub(b.lastTransition) > DebounceWindow {
			b.pressed = raw
			b.lastTransition = now
		}
		if b.pressed {
			mask |= 1 << b.bit
		}
	}
	return mask
}
