// Package quadrature implements the host-side gear reduction that turns
// the turntable encoder's raw, free-running edge count into the 256-step
// axis value reported to the host. The PIO program that produces the raw
// count lives in driver/quadpio; this package only knows about plain
// integers, so the gearing math can be tested without any hardware.
package quadrature

// PPR is the number of quadrature edges per revolution of the physical
// encoder: 360 detents times four quarter-step edges per detent.
const PPR = 1440

// TargetSteps is how many axis steps one full revolution should produce.
const TargetSteps = 144

func gcd(a, b int32) int32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Threshold and EncoderStep are the gear ratio reduced to lowest terms, so
// that changing the mechanical encoder only requires editing PPR and
// TargetSteps above. They are computed once, at package init, rather than
// hand-derived, so the arithmetic stays correct for any PPR/TargetSteps
// pair whose gcd is greater than one.
var (
	Threshold   = int32(PPR) / gcd(PPR, TargetSteps)
	EncoderStep = int32(TargetSteps) / gcd(PPR, TargetSteps)
)

// State is the accumulator the host-side reduction loop carries across
// samples. The zero value is the correct starting state (reported=0,
// rolling=0, lastRaw=0).
type State struct {
	LastRaw  int32
	Rolling  int32
	Reported uint8
}

// Update consumes a new raw sample of the free-running PIO edge counter
// and returns the updated reported axis value. rolling is kept in
// [0, Threshold) on return, regardless of how large the jump between
// samples was, by looping rather than testing the bound once: a host that
// falls behind and sees a large delta in one iteration must still end up
// in a valid state.
func (s *State) Update(raw int32) uint8 {
	delta := raw - s.LastRaw
	s.LastRaw = raw
	s.Rolling += delta * EncoderStep
	for s.Rolling >= Threshold {
		s.Rolling -= Threshold
		s.Reported++
	}
	for s.Rolling < 0 {
		s.Rolling += Threshold
		s.Reported--
	}
	return s.Reported
}

// Source yields the current raw edge count, blocking until a new one is
// available. driver/quadpio's Device satisfies it by feeding every
// buffered PIO RX FIFO sample through its decoder and returning the
// resulting running count.
type Source interface {
	Latest() int32
}

// Sink publishes the reported axis value to the HID reporter.
type Sink interface {
	Put(uint8)
}

// Run drains src forever, feeding each fresh sample through a State and
// publishing the result to out. It never returns.
func Run(src Source, out Sink) {
	var st State
	for {
		out.Put(st.Update(src.Latest()))
	}
}
