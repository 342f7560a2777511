package device

/*
 * R3000 - Serial console device
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

import (
	"io"

	"github.com/rcornwell/R3000/emu/event"
)

// Console register offsets from the region base.
const (
	ConTX   = 0x0 // Write: transmit one byte.
	ConStat = 0x4 // Read: status, TX ready bit.

	conTXReady uint32 = 0x1

	// Guest cycles to shift one byte out. Guests poll the ready bit.
	conTXDelay uint32 = 1088
)

// Console is a write-only serial port mapped as an MMIO region. A
// transmitted byte holds the port busy for conTXDelay guest cycles and
// reaches the writer when the shift completes; writes while busy are
// an overrun and the byte is dropped.
type Console struct {
	Base uint32
	out  io.Writer

	busy    bool
	pending int // Byte in the shift register.
}

func NewConsole(base uint32, out io.Writer) *Console {
	return &Console{Base: base, out: out}
}

func (c *Console) Name() string {
	return "console"
}

func (c *Console) Reset() {
	if c.busy {
		event.CancelEvent(c, c.pending)
		c.busy = false
	}
}

func (c *Console) Read(addr uint32, _ int) uint32 {
	if addr-c.Base == ConStat {
		if c.busy {
			return 0
		}
		return conTXReady
	}
	return 0
}

func (c *Console) Write(addr uint32, _ int, data uint32) {
	if addr-c.Base != ConTX {
		return
	}
	if c.busy {
		// Overrun.
		return
	}
	c.busy = true
	c.pending = int(uint8(data))
	event.AddEvent(c, c.txDone, conTXDelay, c.pending)
}

// txDone completes a transmission: the byte reaches the writer and the
// port goes ready again.
func (c *Console) txDone(iarg int) {
	if c.out != nil {
		c.out.Write([]byte{uint8(iarg)})
	}
	c.busy = false
}

func (c *Console) Shutdown() {
	c.Reset()
}
