package device

/*
 * R3000 - Memory-mapped device interface
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
	dis "github.com/rcornwell/R3000/emu/disassemble"
	"github.com/rcornwell/R3000/emu/recompiler"
)

// Access widths handed to devices.
const (
	Width8  = 1
	Width16 = 2
	Width32 = 4
)

// Device services the accesses of one MMIO region. Addresses are the
// raw guest addresses, as the interpreter dispatches MMIO before
// segment stripping.
type Device interface {
	Name() string
	Reset()
	Read(addr uint32, width int) uint32
	Write(addr uint32, width int, data uint32)
	Shutdown() // Close any open files.
}

// Ops builds the per-width callback table of a device for a memory
// map entry.
func Ops(d Device) *recompiler.MapOps {
	return &recompiler.MapOps{
		Sb: func(_ *recompiler.State, _ *dis.Opcode, addr uint32, data uint8) {
			d.Write(addr, Width8, uint32(data))
		},
		Sh: func(_ *recompiler.State, _ *dis.Opcode, addr uint32, data uint16) {
			d.Write(addr, Width16, uint32(data))
		},
		Sw: func(_ *recompiler.State, _ *dis.Opcode, addr uint32, data uint32) {
			d.Write(addr, Width32, data)
		},
		Lb: func(_ *recompiler.State, _ *dis.Opcode, addr uint32) uint32 {
			return d.Read(addr, Width8)
		},
		Lh: func(_ *recompiler.State, _ *dis.Opcode, addr uint32) uint32 {
			return d.Read(addr, Width16)
		},
		Lw: func(_ *recompiler.State, _ *dis.Opcode, addr uint32) uint32 {
			return d.Read(addr, Width32)
		},
	}
}
