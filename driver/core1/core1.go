//go:build tinygo && rp2350

// Package core1 launches a function on the second processor core using
// the RP2040/RP2350 SIO inter-core mailbox handshake, the same sequence
// the Pico SDK's multicore_launch_core1 performs. The rest of the
// firmware never synchronizes with core 1 again after launch: the LED
// animator loop core 1 runs is open-loop and has nothing to hand back.
package core1

import (
	"device/arm"
	"device/rp"
	"reflect"
	"runtime/volatile"
	"unsafe"
)

// stackSize is the stack reserved for core 1's entry function. Core 1
// never returns, so this is the only stack it ever gets.
const stackSize = 2048

// core1Stack is backed by uint64 so the initial stack pointer is 8-byte
// aligned as the AAPCS requires.
var core1Stack [stackSize / 8]uint64

var core1Entry func()

// vtor is core 0's vector table offset register. Core 1 runs with the
// same vector table.
var vtor = (*volatile.Register32)(unsafe.Pointer(uintptr(0xe000_ed08)))

// Launch starts fn running on core 1. It must be called exactly once,
// from core 0, and fn must never return.
func Launch(fn func()) {
	core1Entry = fn
	resetAndHandshake()
}

// resetAndHandshake power-cycles core 1 and feeds it the fixed six-word
// sequence its boot ROM polls the mailbox for after reset: two zeros to
// flush any stale mailbox state, 1 to commit, then vector table, stack
// pointer, and entry point. The boot ROM echoes each accepted word; any
// other response restarts the sequence from the first zero.
func resetAndHandshake() {
	rp.PSM.FRCE_OFF.SetBits(rp.PSM_FRCE_OFF_PROC1)
	for rp.PSM.FRCE_OFF.Get()&rp.PSM_FRCE_OFF_PROC1 == 0 {
	}
	rp.PSM.FRCE_OFF.ClearBits(rp.PSM_FRCE_OFF_PROC1)

	sp := uint32(uintptr(unsafe.Pointer(&core1Stack[0]))) + stackSize
	// The boot ROM wants the entry point's code address, thumb bit set.
	entry := uint32(reflect.ValueOf(core1Trampoline).Pointer()) | 1

	seq := [...]uint32{0, 0, 1, vtor.Get(), sp, entry}
	for i := 0; i < len(seq); {
		word := seq[i]
		if word == 0 {
			drainMailbox()
		}
		pushMailbox(word)
		if popMailboxEquals(word) {
			i++
		} else {
			i = 0
		}
	}
}

func drainMailbox() {
	for rp.SIO.FIFO_ST.Get()&rp.SIO_FIFO_ST_VLD != 0 {
		rp.SIO.FIFO_RD.Get()
	}
	arm.Asm("sev")
}

func pushMailbox(v uint32) {
	for rp.SIO.FIFO_ST.Get()&rp.SIO_FIFO_ST_RDY == 0 {
	}
	rp.SIO.FIFO_WR.Set(v)
	arm.Asm("sev")
}

func popMailboxEquals(want uint32) bool {
	for rp.SIO.FIFO_ST.Get()&rp.SIO_FIFO_ST_VLD == 0 {
		arm.Asm("wfe")
	}
	return rp.SIO.FIFO_RD.Get() == want
}

// core1Trampoline is the entry point core 1 jumps to: it calls the Go
// function handed to Launch and never returns.
func core1Trampoline() {
	core1Entry()
	for {
		arm.Asm("wfe")
	}
}
