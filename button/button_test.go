package button

import (
	"testing"
	"time"

	"iidxhid.dev/mailbox"
)

// fakePin lets a test drive the raw electrical level directly; true means
// "candidate pressed", matching the Pin contract (the LOW-is-pressed
// inversion is the platform adapter's job, not this package's).
type fakePin struct {
	pressed bool
}

func (p *fakePin) Read() bool { return p.pressed }

// fakeClock is a manually advanced monotonic clock for deterministic
// debounce tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestScanner(pins []*fakePin, bits []uint8, clock *fakeClock) (*Scanner, *mailbox.Mailbox[uint16]) {
	ps := make([]Pin, len(pins))
	for i, p := range pins {
		ps[i] = p
	}
	out := mailbox.New[uint16]()
	return NewScanner(out, ps, bits, clock.Now), out
}

func TestHoldAndRelease(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	key1 := &fakePin{}
	s, out := newTestScanner([]*fakePin{key1}, []uint8{0}, clock)

	mask := s.poll()
	if mask != 0 {
		t.Fatalf("initial mask = %#x, want 0", mask)
	}

	key1.pressed = true
	clock.Advance(5 * time.Millisecond)
	mask = s.poll()
	if mask != 0x0001 {
		t.Fatalf("mask after press = %#x, want 0x0001", mask)
	}

	key1.pressed = false
	clock.Advance(5 * time.Millisecond)
	mask = s.poll()
	if mask != 0x0000 {
		t.Fatalf("mask after release = %#x, want 0x0000", mask)
	}
	out.Put(mask)
	if got, _ := out.TryGet(); got != 0 {
		t.Fatalf("published mask = %#x, want 0", got)
	}
}

func TestGlitchPulseIsSuppressed(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	key1 := &fakePin{}
	s, _ := newTestScanner([]*fakePin{key1}, []uint8{0}, clock)
	s.poll() // establish released baseline

	key1.pressed = true
	clock.Advance(1 * time.Millisecond) // well under DebounceWindow
	mask := s.poll()
	if mask != 0 {
		t.Fatalf("mask after glitch = %#x, want 0 (debounce should suppress it)", mask)
	}

	key1.pressed = false
	clock.Advance(1 * time.Millisecond)
	mask = s.poll()
	if mask != 0 {
		t.Fatalf("mask after glitch settles = %#x, want 0", mask)
	}
}

func TestSimultaneousGameplayAndMenuKey(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	gameplay1 := &fakePin{}
	menu1 := &fakePin{}
	s, _ := newTestScanner([]*fakePin{gameplay1, menu1}, []uint8{0, 8}, clock)

	gameplay1.pressed = true
	menu1.pressed = true
	clock.Advance(5 * time.Millisecond)
	mask := s.poll()
	if mask != 0x0101 {
		t.Fatalf("mask = %#x, want 0x0101", mask)
	}
}

func TestBitMaskRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	pins := make([]*fakePin, NumButtons)
	for i := range pins {
		pins[i] = &fakePin{}
	}
	s, _ := newTestScanner(pins, CanonicalBits[:], clock)

	want := []bool{true, false, true, true, false, false, true, false, true, false, true}
	for i, p := range want {
		pins[i].pressed = p
	}
	clock.Advance(5 * time.Millisecond)
	mask := s.poll()

	for i, bit := range CanonicalBits {
		got := mask&(1<<bit) != 0
		if got != want[i] {
			t.Errorf("bit %d = %v, want %v", bit, got, want[i])
		}
	}
	// Bit 7 and bits 12..15 are never set.
	if mask&(1<<7) != 0 {
		t.Error("reserved bit 7 set")
	}
	if mask&0xF000 != 0 {
		t.Error("bits 12..15 set")
	}
}

func TestDebounceAtMostOnceInWindow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	key1 := &fakePin{}
	s, _ := newTestScanner([]*fakePin{key1}, []uint8{0}, clock)

	transitions := 0
	prev := s.poll()
	for i := 0; i < 100; i++ {
		// Toggle the raw pin every 500us -- far more often than the
		// debounce window allows a transition to land.
		key1.pressed = !key1.pressed
		clock.Advance(500 * time.Microsecond)
		mask := s.poll()
		if mask != prev {
			transitions++
			prev = mask
		}
	}
	// 100 * 500us = 50ms; DebounceWindow is 4ms, so at most 50/4 = 12
	// accepted transitions can occur.
	if transitions > 12 {
		t.Fatalf("saw %d transitions in 50ms, exceeding what a 4ms debounce window allows", transitions)
	}
}
