package cop0

/*
 * R3000 - System control coprocessor
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

// Coprocessor 0 carries the status, cause and exception registers the
// driver needs to route SYSCALL and BREAK exits. Coprocessor 2 (the
// GTE) is modelled as plain data and control register files so LWC2,
// SWC2 and the move forms round-trip; geometry commands are accepted
// and ignored.

import (
	dis "github.com/rcornwell/R3000/emu/disassemble"
	"github.com/rcornwell/R3000/emu/recompiler"
)

// Cop0 register numbers.
const (
	RegSR    = 12
	RegCause = 13
	RegEPC   = 14
	RegPRId  = 15
)

// Exception cause codes.
const (
	ExcSyscall uint32 = 8
	ExcBreak   uint32 = 9
)

const (
	srBEV      uint32 = 1 << 22
	srModeMask uint32 = 0x3f

	prid uint32 = 0x00000002 // CP0 revision of the stock console.

	vectorRAM uint32 = 0x80000080
	vectorROM uint32 = 0xbfc00180
)

type Cop0 struct {
	SR    uint32
	Cause uint32
	EPC   uint32

	gteData [32]uint32
	gteCtrl [32]uint32
}

func New() *Cop0 {
	return &Cop0{SR: srBEV}
}

// Exception enters an exception: the interrupt-enable/mode stack in SR
// is pushed, Cause and EPC are loaded, and the handler vector is
// returned for the driver to execute from.
func (c *Cop0) Exception(cause uint32, pc uint32) uint32 {
	mode := c.SR & srModeMask
	c.SR = (c.SR &^ srModeMask) | ((mode << 2) & srModeMask)
	c.Cause = cause << 2
	c.EPC = pc
	if c.SR&srBEV != 0 {
		return vectorROM
	}
	return vectorRAM
}

// rfe pops the interrupt-enable/mode stack.
func (c *Cop0) rfe() {
	mode := c.SR & srModeMask
	c.SR = (c.SR &^ 0x0f) | ((mode >> 2) & 0x0f)
}

func (c *Cop0) mfc(reg uint8) uint32 {
	switch reg {
	case RegSR:
		return c.SR
	case RegCause:
		return c.Cause
	case RegEPC:
		return c.EPC
	case RegPRId:
		return prid
	}
	return 0
}

func (c *Cop0) mtc(reg uint8, data uint32) {
	switch reg {
	case RegSR:
		c.SR = data
	case RegCause:
		// Only the software interrupt bits are writable.
		c.Cause = (c.Cause &^ 0x300) | (data & 0x300)
	}
}

// Ops builds the coprocessor table the recompiler dispatches through.
func (c *Cop0) Ops() *recompiler.CopOps {
	return &recompiler.CopOps{
		Mfc: func(_ *recompiler.State, _ *dis.Opcode, cop uint8, reg uint8) uint32 {
			if cop == 2 {
				return c.gteData[reg&31]
			}
			return c.mfc(reg)
		},
		Cfc: func(_ *recompiler.State, _ *dis.Opcode, cop uint8, reg uint8) uint32 {
			if cop == 2 {
				return c.gteCtrl[reg&31]
			}
			return c.mfc(reg)
		},
		Mtc: func(_ *recompiler.State, _ *dis.Opcode, cop uint8, reg uint8, data uint32) {
			if cop == 2 {
				c.gteData[reg&31] = data
				return
			}
			c.mtc(reg, data)
		},
		Ctc: func(_ *recompiler.State, _ *dis.Opcode, cop uint8, reg uint8, data uint32) {
			if cop == 2 {
				c.gteCtrl[reg&31] = data
				return
			}
			c.mtc(reg, data)
		},
		Op: func(_ *recompiler.State, o *dis.Opcode, cop uint8) {
			if cop == 0 && o.Fn == 0x10 {
				c.rfe()
			}
			// GTE commands complete immediately with no result.
		},
	}
}
