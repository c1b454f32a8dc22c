//go:build tinygo && rp2350

// Package dma claims exclusively-owned DMA channels and completion
// interrupts for this firmware's PIO-driven peripherals. Per this
// firmware's resource model, a channel or IRQ line is reserved once at
// startup by whichever driver needs it (driver/wsparallel's parallel
// WS2812 frame buffer is the only caller in this tree) and held for the
// device's lifetime: there is no generic DMA allocator, and no Release
// for a channel once claimed.
package dma

import (
	"device/rp"
	"fmt"
	"math/bits"
	"runtime/interrupt"
	"runtime/volatile"
	"sync"
	"unsafe"
)

// chanRegs is the register block of a single DMA channel, repeated
// nchannels times starting at CH0_READ_ADDR.
type chanRegs struct {
	READ_ADDR            volatile.Register32
	WRITE_ADDR           volatile.Register32
	TRANS_COUNT          volatile.Register32
	CTRL_TRIG            volatile.Register32
	AL1_CTRL             volatile.Register32
	AL1_READ_ADDR        volatile.Register32
	AL1_WRITE_ADDR       volatile.Register32
	AL1_TRANS_COUNT_TRIG volatile.Register32
	AL2_CTRL             volatile.Register32
	AL2_TRANS_COUNT      volatile.Register32
	AL2_READ_ADDR        volatile.Register32
	AL2_WRITE_ADDR_TRIG  volatile.Register32
	AL3_CTRL             volatile.Register32
	AL3_WRITE_ADDR       volatile.Register32
	AL3_TRANS_COUNT      volatile.Register32
	AL3_READ_ADDR_TRIG   volatile.Register32
}

// Channel is one DMA channel bound to the caller that reserved it.
// Embedding the register block lets a caller address Channel's fields
// (READ_ADDR, CTRL_TRIG, ...) directly, while ID identifies the channel
// to itself for self-referencing fields like CTRL_TRIG's CHAIN_TO.
type Channel struct {
	id ChannelID
	*chanRegs
}

// ID returns the channel's hardware index.
func (c *Channel) ID() ChannelID { return c.id }

type (
	ChannelID uint8
	IRQ       uint8
)

const (
	nchannels = 16 // rp2350
	nirq      = 4
)

var (
	mu sync.Mutex
	// reservedChans tracks the bitset of reserved DMA channels.
	reservedChans uint16
	// reservedIRQs tracks the bitset of reserved completion interrupts.
	reservedIRQs uint16
)

// irqRegs is one DMA IRQ line's enable/force/status registers.
type irqRegs struct {
	INTE volatile.Register32
	INTF volatile.Register32
	INTS volatile.Register32
}

type irqHandler struct {
	num      uint8
	intr     interrupt.Interrupt
	callback func()
}

var (
	chanBank = unsafe.Slice((*chanRegs)(unsafe.Pointer(&rp.DMA.CH0_READ_ADDR)), nchannels)
	irqBank  = unsafe.Slice((*irqRegs)(unsafe.Pointer(&rp.DMA.INTE0)), nirq)
	handlers [nirq]irqHandler
)

func init() {
	for i := range handlers {
		handlers[i].num = uint8(i)
	}
	handlers[0].intr = interrupt.New(rp.IRQ_DMA_IRQ_0, handlers[0].handleInterrupt)
	handlers[1].intr = interrupt.New(rp.IRQ_DMA_IRQ_1, handlers[1].handleInterrupt)
	handlers[2].intr = interrupt.New(rp.IRQ_DMA_IRQ_2, handlers[2].handleInterrupt)
	handlers[3].intr = interrupt.New(rp.IRQ_DMA_IRQ_3, handlers[3].handleInterrupt)
	// DMA completion is heavier and less time-critical than the
	// peripherals it feeds, so it always yields to every other interrupt
	// source in this firmware.
	for i := range handlers {
		handlers[i].intr.SetPriority(0xff)
	}
}

// ReserveChannel claims one free DMA channel for owner's exclusive,
// lifetime-long use. owner is only used to make a reservation failure's
// panic/error message traceable to the driver that couldn't start.
func ReserveChannel(owner string) (*Channel, error) {
	mu.Lock()
	defer mu.Unlock()
	id := ChannelID(16 - bits.LeadingZeros16(reservedChans))
	if int(id) == nchannels {
		return nil, fmt.Errorf("dma: no channel available for %s", owner)
	}
	reservedChans |= 0b1 << id
	return &Channel{id: id, chanRegs: &chanBank[id]}, nil
}

// ReserveIRQ claims one free DMA completion interrupt line for owner.
func ReserveIRQ(owner string) (IRQ, error) {
	mu.Lock()
	defer mu.Unlock()
	num := IRQ(16 - bits.LeadingZeros16(reservedIRQs))
	if int(num) == nirq {
		return 0xff, fmt.Errorf("dma: no interrupt line available for %s", owner)
	}
	reservedIRQs |= 0b1 << num
	return num, nil
}

// Free releases irq back to the pool. Channels have no equivalent: every
// channel owner in this firmware holds its channel for the device's
// lifetime, but a channel reservation that fails after an IRQ was already
// claimed (see driver/wsparallel.Configure) needs to release that IRQ.
func (irq IRQ) Free() {
	mu.Lock()
	defer mu.Unlock()
	reservedIRQs &^= 0b1 << irq
}

func (h *irqHandler) handleInterrupt(interrupt.Interrupt) {
	// Acknowledge interrupt.
	regs := &irqBank[h.num]
	regs.INTS.Set(regs.INTS.Get())
	if h.callback != nil {
		h.callback()
	}
}

// Set arms irq to invoke callback whenever ch's transfer completes,
// replacing whatever wiring irq previously had. callback runs from
// interrupt context.
func (irq IRQ) Set(ch *Channel, callback func()) {
	h := &handlers[irq]
	h.intr.Disable()
	h.callback = callback
	if callback != nil {
		regs := &irqBank[irq]
		regs.INTE.Set(0b1 << ch.id)
		h.intr.Enable()
	}
}
