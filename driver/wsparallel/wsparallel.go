//go:build tinygo && rp2350

package wsparallel

import (
	"device/rp"
	"fmt"
	"machine"
	"runtime"
	"time"
	"unsafe"

	"iidxhid.dev/driver/dma"
	"iidxhid.dev/driver/pio"
	"iidxhid.dev/led"
)

// program is the parallel WS2812 bit-bang sequence, one PIO program
// driving up to 32 chains from a single shared FIFO word per bit: pull
// the next word into X, force every pin high together (the common rising
// edge every chain shares), then let each pin settle to its own bit, then
// force every pin low together to close out the bit period. The OUT
// spends one cycle of the low tail, so the delays below produce a
// 3-high, 3-data, 4-low envelope per bit.
//
//	out  x, 32
//	mov  pins, !null  [2]
//	mov  pins, x      [2]
//	mov  pins, null   [2]
var program = []uint16{
	0x6020, // out x, 32
	0xA20B, // mov pins, !null  [2]
	0xA201, // mov pins, x      [2]
	0xA203, // mov pins, null   [2]
}

const (
	pioSM      = 0
	progOffset = 0
	// cyclesPerBit is the total PIO clock cycles the program above
	// spends per WS2812 bit: 1 + 3 + 3 + 3.
	cyclesPerBit = 10
	bitRateHz    = 800_000
)

// resetWindow is the minimum idle time WS2812 needs on the data line to
// latch a frame.
const resetWindow = 80 * time.Microsecond

// Device drives NumChains parallel WS2812 chains from BasePin..BasePin+NumChains-1
// through one PIO state machine and one DMA channel.
type Device struct {
	Pio       *rp.PIO0_Type
	BasePin   machine.Pin
	NumChains int

	channel *dma.Channel
	irq     dma.IRQ
	done    chan struct{}
}

// Configure reserves a DMA channel and IRQ and programs the state
// machine. It must be called once before Write.
func (d *Device) Configure() error {
	if d.NumChains < 1 || d.NumChains > 32 {
		return fmt.Errorf("wsparallel: invalid chain count %d", d.NumChains)
	}
	irq, err := dma.ReserveIRQ("wsparallel")
	if err != nil {
		return fmt.Errorf("wsparallel: %w", err)
	}
	ch, err := dma.ReserveChannel("wsparallel")
	if err != nil {
		irq.Free()
		return fmt.Errorf("wsparallel: %w", err)
	}
	d.channel = ch
	d.irq = irq
	d.done = make(chan struct{}, 1)

	d.channel.WRITE_ADDR.Set(uint32(uintptr(unsafe.Pointer(pio.Tx(d.Pio, pioSM)))))
	d.channel.CTRL_TRIG.Set(
		rp.DMA_CH0_CTRL_TRIG_INCR_READ |
			rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_SIZE_WORD<<rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos |
			uint32(d.channel.ID())<<rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos |
			pio.DreqTx(d.Pio, pioSM)<<rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos |
			rp.DMA_CH0_CTRL_TRIG_HIGH_PRIORITY,
	)

	conf := pio.DefaultStateMachineConfig()
	// MOV PINS writes through the OUT pin mapping.
	conf.OutBase = uint8(d.BasePin)
	conf.OutCount = d.NumChains
	conf.FIFOMode = pio.FIFOJoinTX
	conf.PullThreshold = 32
	conf.Autopull = true
	conf.Freq = bitRateHz * cyclesPerBit
	conf.SetWrap(progOffset, progOffset+uint8(len(program))-1)
	pio.Configure(d.Pio, pioSM, conf.Build())
	pio.Program(d.Pio, progOffset, program)

	pio.ConfigurePins(d.Pio, pioSM, d.BasePin, d.NumChains)
	pio.Pindirs(d.Pio, pioSM, d.BasePin, d.NumChains, machine.PinOutput)

	d.irq.Set(d.channel, d.onComplete)
	pio.Restart(d.Pio, 0b1<<pioSM)
	pio.Jump(d.Pio, pioSM, progOffset)
	pio.Enable(d.Pio, 0b1<<pioSM)
	return nil
}

func (d *Device) onComplete() {
	select {
	case d.done <- struct{}{}:
	default:
	}
}

// WriteFrame bit-interleaves strips and ships the result out over DMA,
// then waits for the transfer to complete and the WS2812 reset window to
// elapse before returning, so back-to-back frames never run together.
// It satisfies led.ParallelStrip.
func (d *Device) WriteFrame(strips [][]led.RGB8) error {
	if len(strips) > d.NumChains {
		return fmt.Errorf("wsparallel: %d chains given, device configured for %d", len(strips), d.NumChains)
	}
	words := Assemble(strips)
	if len(words) == 0 {
		return nil
	}
	pio.WaitTxEmpty(d.Pio, 0b1<<pioSM)
	d.channel.READ_ADDR.Set(uint32(uintptr(unsafe.Pointer(unsafe.SliceData(words)))))
	d.channel.TRANS_COUNT.Set(uint32(len(words)))
	d.channel.CTRL_TRIG.SetBits(rp.DMA_CH0_CTRL_TRIG_EN)
	<-d.done
	runtime.KeepAlive(words)
	time.Sleep(resetWindow)
	return nil
}
