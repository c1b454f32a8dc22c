package led

import "time"

// NumLongStripLEDs is the length of the single long addressable chain.
const NumLongStripLEDs = 26

// HueCycleTimeMS is how long one full rainbow hue cycle takes to scroll
// across the whole strip.
const HueCycleTimeMS = 1000

// TickPeriod is the animator's fixed tick: one hue step's worth of time,
// so a full cycle takes HueCycleTimeMS.
const TickPeriod = time.Duration(HueCycleTimeMS) * time.Millisecond / 256

// ButtonColours are the static colours driven onto the three per-button
// RGB LEDs.
var ButtonColours = [3]RGB8{
	{R: 0xA2, G: 0x2B, B: 0x95},
	{R: 0x12, G: 0x34, B: 0x56},
	{R: 0x63, G: 0x6A, B: 0x2C},
}

// Strip is the single-chain WS2812 driver the long strip is rendered
// through; an external collaborator this package only depends on the
// contract of.
type Strip interface {
	WriteColors(colors []RGB8) error
}

// ParallelStrip is the parallel multi-chain WS2812 driver the per-button
// LEDs are rendered through.
type ParallelStrip interface {
	WriteFrame(strips [][]RGB8) error
}

// Animator drives Long and Buttons from a single ticker. It carries no
// input state: the animation is open-loop by design, so that core 1 (where
// the animator and both drivers live) never needs to observe core 0's
// button or encoder state.
type Animator struct {
	Long    Strip
	Buttons ParallelStrip

	hue     byte
	longBuf [NumLongStripLEDs]RGB8
	btnBufs [3][1]RGB8
	frame   [3][]RGB8
}

// NewAnimator constructs an Animator ready to drive long and buttons.
func NewAnimator(long Strip, buttons ParallelStrip) *Animator {
	a := &Animator{Long: long, Buttons: buttons}
	for i := range a.btnBufs {
		a.frame[i] = a.btnBufs[i][:]
	}
	return a
}

// Run ticks the animator forever, calling onErr (if non-nil) for any write
// failure instead of stopping: a dropped LED frame is not fatal.
func (a *Animator) Run(tick <-chan time.Time, onErr func(error)) {
	for range tick {
		if err := a.step(); err != nil && onErr != nil {
			onErr(err)
		}
	}
}

// step renders and writes one frame to both LED surfaces.
func (a *Animator) step() error {
	hue := a.hue
	for i := range a.longBuf {
		a.longBuf[i] = HSV(hue, 255, 128)
		hue++
	}
	a.hue++

	if err := a.Long.WriteColors(a.longBuf[:]); err != nil {
		return err
	}

	for i, c := range ButtonColours {
		a.btnBufs[i][0] = c
	}
	return a.Buttons.WriteFrame(a.frame[:])
}
